package models

// Note is a markdown note as returned by the backend. ProjectID is nil for
// notes outside any project; Project carries the embedded project name the
// list endpoint includes for display.
type Note struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsPublic  bool   `json:"isPublic"`
	UserID    int64  `json:"UserId"`
	ProjectID *int64 `json:"ProjectId"`
	Project   string `json:"Project,omitempty"`
	Username  string `json:"username,omitempty"`
}

// OwnedBy reports whether the note belongs to the given user id.
// Advisory only; the backend enforces ownership.
func (n *Note) OwnedBy(userID int64) bool {
	return n.UserID == userID
}
