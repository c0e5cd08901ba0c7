package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"notectl/internal/logging"
	"notectl/internal/models"
)

// HTTPClient is the concrete Client talking JSON over HTTP.
//
// Cross-cutting behavior, applied to every request:
//   - the bearer token (when set) goes out as an Authorization header;
//   - every request is stamped with a fresh X-Request-Id;
//   - a 401 response from any endpoint invokes the unauthorized hook before
//     the error is returned, so the session layer can invalidate globally.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	log     logging.Logger

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     log.With("component", "api"),
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers the hook invoked whenever the backend answers 401.
func (c *HTTPClient) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *HTTPClient) fireUnauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// errorPayload is the error body shape the backend uses.
type errorPayload struct {
	Message string `json:"message"`
}

// do performs one JSON request/response round trip. body and out may be nil.
// Non-2xx responses are mapped to *Error; out is only touched on success.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return &Error{Kind: ErrUnavailable, cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: ErrUnknown, Status: resp.StatusCode, cause: err}
		}
		return nil
	}

	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload) // tolerate non-JSON error bodies

	if resp.StatusCode == http.StatusUnauthorized {
		c.fireUnauthorized()
	}

	apiErr := &Error{Kind: mapStatus(resp.StatusCode), Status: resp.StatusCode, Message: payload.Message}
	c.log.Debug(ctx, "backend error", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)
	return apiErr
}

func mapStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		if status >= 500 {
			return ErrUnavailable
		}
		return ErrUnknown
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentials{Username: username, Password: password}, &session)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			// On the login endpoint 401/403 mean bad credentials and a
			// disabled account, not a stale session.
			switch apiErr.Status {
			case http.StatusUnauthorized:
				apiErr.Kind = ErrInvalidCredentials
			case http.StatusForbidden:
				apiErr.Kind = ErrAccountDisabled
			}
		}
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, credentials{Username: username, Password: password}, nil)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			apiErr.Kind = ErrRegistration
		}
		return err
	}
	return nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.Session, error) {
	var session models.Session
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	c.SetToken("")
	if err != nil {
		// Logout must never fail observably.
		c.log.Warn(ctx, "logout notification failed", "err", err)
	}
	return nil
}

func (c *HTTPClient) ListNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := c.do(ctx, http.MethodGet, "/notes", nil, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *HTTPClient) GetNote(ctx context.Context, id int64, isAdmin bool) (*models.Note, error) {
	query := url.Values{"isAdmin": []string{strconv.FormatBool(isAdmin)}}
	var note models.Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+strconv.FormatInt(id, 10), query, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *HTTPClient) CreateNote(ctx context.Context, draft NoteDraft) (*models.Note, error) {
	var note models.Note
	if err := c.do(ctx, http.MethodPost, "/notes", nil, draft, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *HTTPClient) UpdateNote(ctx context.Context, id int64, patch NotePatch) error {
	if patch.IsProjectUpdate {
		return c.do(ctx, http.MethodPut, "/notes/global", nil, patch, nil)
	}
	return c.do(ctx, http.MethodPut, "/notes/"+strconv.FormatInt(id, 10), nil, patch, nil)
}

func (c *HTTPClient) DeleteNote(ctx context.Context, id int64, isAdmin bool) error {
	body := map[string]bool{"isAdmin": isAdmin}
	return c.do(ctx, http.MethodDelete, "/notes/"+strconv.FormatInt(id, 10), nil, body, nil)
}

func (c *HTTPClient) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *HTTPClient) CreateProject(ctx context.Context, draft ProjectDraft) error {
	return c.do(ctx, http.MethodPost, "/projects", nil, draft, nil)
}

func (c *HTTPClient) UpdateProject(ctx context.Context, id int64, draft ProjectDraft) error {
	return c.do(ctx, http.MethodPut, "/projects/"+strconv.FormatInt(id, 10), nil, draft, nil)
}

func (c *HTTPClient) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, draft UserDraft) error {
	return c.do(ctx, http.MethodPost, "/users", nil, draft, nil)
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int64, patch UserPatch) error {
	return c.do(ctx, http.MethodPut, "/users/"+strconv.FormatInt(id, 10), nil, patch, nil)
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id int64, requestingAdmin bool) error {
	body := map[string]bool{"isAdmin": requestingAdmin}
	return c.do(ctx, http.MethodDelete, "/users/"+strconv.FormatInt(id, 10), nil, body, nil)
}
