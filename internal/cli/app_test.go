package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"notectl/internal/api"
	"notectl/internal/config"
	"notectl/internal/logging"
	"notectl/internal/models"
	"notectl/internal/session"
)

// stubClient is an in-memory api.Client for app-level tests.
type stubClient struct {
	mu sync.Mutex

	LoginRet *models.Session
	LoginErr error
	MeRet    *models.Session
	MeErr    error

	NotesRet    []models.Note
	NotesErr    error
	ProjectsRet []models.Project
	UsersRet    []models.User

	RegisterCalls   int
	ListCalls       int
	UpdateNoteCalls int
	DeleteNoteCalls int
	token           string
}

func (c *stubClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	return c.LoginRet, c.LoginErr
}

func (c *stubClient) Register(ctx context.Context, username, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RegisterCalls++
	return nil
}

func (c *stubClient) Me(ctx context.Context) (*models.Session, error) { return c.MeRet, c.MeErr }
func (c *stubClient) Logout(ctx context.Context) error                { return nil }

func (c *stubClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *stubClient) ListNotes(ctx context.Context) ([]models.Note, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ListCalls++
	return c.NotesRet, c.NotesErr
}

func (c *stubClient) GetNote(ctx context.Context, id int64, isAdmin bool) (*models.Note, error) {
	for i := range c.NotesRet {
		if c.NotesRet[i].ID == id {
			return &c.NotesRet[i], nil
		}
	}
	return nil, &api.Error{Kind: api.ErrNotFound}
}

func (c *stubClient) CreateNote(ctx context.Context, draft api.NoteDraft) (*models.Note, error) {
	return &models.Note{ID: 99, Title: draft.Title}, nil
}

func (c *stubClient) UpdateNote(ctx context.Context, id int64, patch api.NotePatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UpdateNoteCalls++
	return nil
}

func (c *stubClient) DeleteNote(ctx context.Context, id int64, isAdmin bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DeleteNoteCalls++
	return nil
}

func (c *stubClient) ListProjects(ctx context.Context) ([]models.Project, error) {
	return c.ProjectsRet, nil
}

func (c *stubClient) CreateProject(ctx context.Context, draft api.ProjectDraft) error { return nil }
func (c *stubClient) UpdateProject(ctx context.Context, id int64, draft api.ProjectDraft) error {
	return nil
}
func (c *stubClient) DeleteProject(ctx context.Context, id int64) error { return nil }

func (c *stubClient) ListUsers(ctx context.Context) ([]models.User, error) { return c.UsersRet, nil }
func (c *stubClient) CreateUser(ctx context.Context, draft api.UserDraft) error {
	return nil
}
func (c *stubClient) UpdateUser(ctx context.Context, id int64, patch api.UserPatch) error {
	return nil
}
func (c *stubClient) DeleteUser(ctx context.Context, id int64, requestingAdmin bool) error {
	return nil
}

type memStore struct {
	mu   sync.Mutex
	sess *models.Session
}

func (m *memStore) Save(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = s
	return nil
}

func (m *memStore) Load(ctx context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess, nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	return nil
}

func adminSession() *models.Session {
	return &models.Session{ID: 2, Username: "alice", IsAdmin: true, Token: "tok"}
}

func userSession() *models.Session {
	return &models.Session{ID: 3, Username: "bob", Token: "tok"}
}

// newTestApp builds an app over the stub client. Verify runs synchronously so
// the guard is past its loading state unless the test wants otherwise.
func newTestApp(t *testing.T, client *stubClient, reader LineReader, verify bool) (*App, *bytes.Buffer) {
	t.Helper()
	log := logging.Nop()
	manager := session.NewManager(context.Background(), client, &memStore{}, log)
	if verify {
		manager.Verify(context.Background())
	}
	out := &bytes.Buffer{}
	cfg := &config.Config{}
	return newApp(cfg, log, client, manager, reader, out), out
}

// Built the way the binary builds it, with only this package's imports in
// play, so a missing driver registration fails here and not at startup.
func TestNewApp_OpensSessionStore(t *testing.T) {
	cfg := &config.Config{
		APIBaseURL:     "http://127.0.0.1:1",
		SessionDBPath:  "file:appstore?mode=memory&cache=shared",
		RequestTimeout: time.Second,
	}
	a, err := NewApp(context.Background(), cfg, logging.Nop(), &scriptReader{})
	require.NoError(t, err)
	require.NotNil(t, a)
}

func TestApp_PromptReflectsSession(t *testing.T) {
	client := &stubClient{LoginRet: adminSession()}
	a, _ := newTestApp(t, client, &scriptReader{}, true)

	require.Equal(t, "notectl> ", a.prompt())

	_, err := a.manager.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	require.Equal(t, "notectl (alice, admin)> ", a.prompt())
}

func TestApp_WaitReadyResolvesAfterVerify(t *testing.T) {
	a, _ := newTestApp(t, &stubClient{}, &scriptReader{}, false)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.Error(t, a.WaitReady(ctx), "verification has not run yet")

	a.manager.Verify(context.Background())
	require.NoError(t, a.WaitReady(context.Background()))
}

func TestApp_GuardSuspendsWhileVerifying(t *testing.T) {
	client := &stubClient{}
	a, out := newTestApp(t, client, &scriptReader{}, false)

	a.ShowNotes(context.Background())

	require.Contains(t, out.String(), "verifying")
	require.Zero(t, client.ListCalls)
}

func TestApp_LoginReturnsToRequestedView(t *testing.T) {
	client := &stubClient{
		LoginRet: adminSession(),
		NotesRet: []models.Note{{ID: 1, Title: "first", UserID: 2}},
	}
	reader := &scriptReader{lines: []string{"alice"}}
	a, out := newTestApp(t, client, reader, true)

	restore := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("pw"), nil }
	defer func() { readPassword = restore }()

	// Gated view before login: redirected, location remembered.
	a.ShowNotes(context.Background())
	require.Contains(t, out.String(), "Please log in first.")
	require.Equal(t, "/notes", a.pendingPath)
	require.Zero(t, client.ListCalls)

	require.NoError(t, a.Login(context.Background()))

	require.Contains(t, out.String(), "Logged in as alice.")
	require.Contains(t, out.String(), "first")
	require.Empty(t, a.pendingPath)
	require.Equal(t, 1, client.ListCalls)
}

func TestApp_AdminViewBouncesRegularUserToNotes(t *testing.T) {
	client := &stubClient{
		LoginRet: userSession(),
		NotesRet: []models.Note{{ID: 1, Title: "mine", UserID: 3}},
	}
	a, out := newTestApp(t, client, &scriptReader{}, true)
	_, err := a.manager.Login(context.Background(), "bob", "pw")
	require.NoError(t, err)

	a.ShowUsers(context.Background())

	require.Contains(t, out.String(), "administrators")
	require.Contains(t, out.String(), "mine")
	require.Equal(t, 1, client.ListCalls)
}

func TestApp_RegisterRequiresCredentials(t *testing.T) {
	client := &stubClient{}
	reader := &scriptReader{lines: []string{""}}
	a, out := newTestApp(t, client, reader, true)

	restore := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("pw"), nil }
	defer func() { readPassword = restore }()

	require.NoError(t, a.Register(context.Background()))
	require.Contains(t, out.String(), "Username and password are required.")
	require.Zero(t, client.RegisterCalls)
}

func TestApp_RegisterDoesNotLogIn(t *testing.T) {
	client := &stubClient{}
	reader := &scriptReader{lines: []string{"carol"}}
	a, out := newTestApp(t, client, reader, true)

	restore := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("pw"), nil }
	defer func() { readPassword = restore }()

	require.NoError(t, a.Register(context.Background()))
	require.Contains(t, out.String(), "Account created.")
	require.Equal(t, 1, client.RegisterCalls)
	require.False(t, a.isLoggedIn())
}

func TestApp_EditAndDeleteGateOnOwnership(t *testing.T) {
	foreign := models.Note{ID: 1, Title: "not yours", UserID: 2}
	own := models.Note{ID: 4, Title: "yours", UserID: 3}

	client := &stubClient{
		LoginRet: userSession(),
		NotesRet: []models.Note{foreign, own},
	}
	reader := &scriptReader{lines: []string{"y"}}
	a, out := newTestApp(t, client, reader, true)
	_, err := a.manager.Login(context.Background(), "bob", "pw")
	require.NoError(t, err)

	require.NoError(t, a.EditNote(context.Background(), foreign.ID))
	require.Contains(t, out.String(), "You can only edit your own notes.")
	require.Zero(t, client.UpdateNoteCalls)

	a.DeleteNote(context.Background(), foreign.ID)
	require.Contains(t, out.String(), "You can only delete your own notes.")
	require.Zero(t, client.DeleteNoteCalls)

	// The owner gets through to the confirmation and the delete.
	a.DeleteNote(context.Background(), own.ID)
	require.Equal(t, 1, client.DeleteNoteCalls)
}

func TestApp_AdminModifiesAnyNote(t *testing.T) {
	client := &stubClient{
		LoginRet: adminSession(),
		NotesRet: []models.Note{{ID: 1, Title: "someone else's", UserID: 7}},
	}
	reader := &scriptReader{lines: []string{"y"}}
	a, _ := newTestApp(t, client, reader, true)
	_, err := a.manager.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)

	a.DeleteNote(context.Background(), 1)
	require.Equal(t, 1, client.DeleteNoteCalls)
}

func TestApp_WhoAmI(t *testing.T) {
	client := &stubClient{LoginRet: adminSession()}
	a, out := newTestApp(t, client, &scriptReader{}, true)

	a.WhoAmI()
	require.Contains(t, out.String(), "Not logged in.")

	_, err := a.manager.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	a.WhoAmI()
	require.Contains(t, out.String(), "alice (id 2, admin)")
}
