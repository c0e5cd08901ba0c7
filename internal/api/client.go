// Package api is the REST transport for the notes backend. It mirrors the
// backend's endpoint surface one method per operation; everything above it
// (session lifecycle, sync flows) is built on the Client interface so tests
// can substitute fakes.
package api

import (
	"context"

	"notectl/internal/models"
)

// NoteDraft is the payload for creating a note. The project is chosen at
// creation time only; reassignment is not part of the backend contract.
type NoteDraft struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsPublic  bool   `json:"isPublic"`
	UserID    int64  `json:"userId"`
	ProjectID *int64 `json:"projectId,omitempty"`
}

// NotePatch is a partial note update. Nil fields are left untouched by the
// backend. IsProjectUpdate routes the request to the project-scoped bulk
// endpoint instead of the per-note one.
type NotePatch struct {
	// ID identifies the note on the bulk endpoint, whose URL carries none.
	ID              int64   `json:"id,omitempty"`
	Title           *string `json:"title,omitempty"`
	Content         *string `json:"content,omitempty"`
	IsPublic        *bool   `json:"isPublic,omitempty"`
	ProjectID       *int64  `json:"ProjectId,omitempty"`
	IsProjectUpdate bool    `json:"isProjectUpdate,omitempty"`
}

// ProjectDraft is the payload for creating or updating a project. UserID and
// IsAdmin are advisory claims the backend re-validates.
type ProjectDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UserID      int64  `json:"userId,omitempty"`
	IsAdmin     bool   `json:"isAdmin,omitempty"`
}

// UserDraft is the payload for creating a user from the admin view.
// RequestingUserIsAdmin is the caller's advisory claim; IsAdmin is the flag
// for the account being created.
type UserDraft struct {
	Username              string `json:"username"`
	Password              string `json:"password"`
	Role                  string `json:"role"`
	IsAdmin               bool   `json:"isAdmin"`
	RequestingUserIsAdmin bool   `json:"requestingUserIsAdmin"`
}

// UserPatch is a partial user update. RequestingUserIsAdmin carries the
// caller's advisory admin claim.
type UserPatch struct {
	IsActive              *bool `json:"isActive,omitempty"`
	IsAdmin               *bool `json:"isAdmin,omitempty"`
	RequestingUserIsAdmin *bool `json:"requestingUserIsAdmin,omitempty"`
}

// Client defines the backend operations the application uses.
//
// All methods honor context cancellation. Failures come back as *Error
// values matchable with errors.Is against the sentinel kinds.
type Client interface {
	// Login authenticates and returns the issued session. The transport
	// remembers the bearer token for subsequent calls.
	Login(ctx context.Context, username, password string) (*models.Session, error)
	// Register creates a new account.
	Register(ctx context.Context, username, password string) error
	// Me asks the backend who the current token belongs to.
	Me(ctx context.Context) (*models.Session, error)
	// Logout notifies the backend and forgets the transport token.
	// Best effort: an unreachable server is not an error.
	Logout(ctx context.Context) error

	ListNotes(ctx context.Context) ([]models.Note, error)
	GetNote(ctx context.Context, id int64, isAdmin bool) (*models.Note, error)
	CreateNote(ctx context.Context, draft NoteDraft) (*models.Note, error)
	UpdateNote(ctx context.Context, id int64, patch NotePatch) error
	DeleteNote(ctx context.Context, id int64, isAdmin bool) error

	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, draft ProjectDraft) error
	UpdateProject(ctx context.Context, id int64, draft ProjectDraft) error
	DeleteProject(ctx context.Context, id int64) error

	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, draft UserDraft) error
	UpdateUser(ctx context.Context, id int64, patch UserPatch) error
	DeleteUser(ctx context.Context, id int64, requestingAdmin bool) error

	// SetToken replaces the bearer token used on authenticated requests.
	// An empty token means unauthenticated.
	SetToken(token string)
}
