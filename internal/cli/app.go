// Package cli implements the interactive terminal client. Each page of the
// original web UI maps to a command: notes (grouped by project), note
// detail/editing, project management and admin user management, all gated by
// the same auth/role rules.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"notectl/internal/api"
	"notectl/internal/config"
	"notectl/internal/guard"
	"notectl/internal/logging"
	"notectl/internal/services"
	"notectl/internal/session"
)

// App wires the transport, session manager and resource services together
// behind the REPL commands.
type App struct {
	cfg      *config.Config
	log      logging.Logger
	api      api.Client
	manager  *session.Manager
	notes    *services.Notes
	projects *services.Projects
	users    *services.Users

	reader LineReader
	out    io.Writer

	// pendingPath remembers the view a redirect-to-login interrupted, so a
	// successful login can return there.
	pendingPath string

	success func(format string, a ...any) string
	failure func(format string, a ...any) string
	notice  func(format string, a ...any) string
}

// LineReader is the minimal line-input surface the app needs.
// *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, reader LineReader) (*App, error) {
	db, err := session.OpenDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}

	client := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, log)
	store := session.NewSQLiteStore(db)
	manager := session.NewManager(ctx, client, store, log)

	a := newApp(cfg, log, client, manager, reader, os.Stdout)

	// Any 401 invalidates the session globally, whatever endpoint produced it.
	client.OnUnauthorized(func() {
		manager.Invalidate(context.Background())
		a.resetViews()
		fmt.Fprintln(a.out, a.failure("Your session has expired. Please log in again."))
	})

	// The guard keeps gated views suspended until this resolves.
	go manager.Verify(ctx)

	return a, nil
}

// newApp is the wiring shared by NewApp and tests.
func newApp(cfg *config.Config, log logging.Logger, client api.Client, manager *session.Manager, reader LineReader, out io.Writer) *App {
	a := &App{
		cfg:     cfg,
		log:     log,
		api:     client,
		manager: manager,
		reader:  reader,
		out:     out,
		success: color.New(color.FgGreen).Sprintf,
		failure: color.New(color.FgRed).Sprintf,
		notice:  color.New(color.FgYellow).Sprintf,
	}
	sess := services.SessionSource(manager.Current)
	a.notes = services.NewNotes(client, sess, log)
	a.projects = services.NewProjects(client, sess, log)
	a.users = services.NewUsers(client, sess, log)
	return a
}

// WaitReady blocks until the startup session verification has resolved or
// ctx expires. Callers use it so the first prompt reflects a settled state.
func (a *App) WaitReady(ctx context.Context) error {
	return a.manager.WaitVerified(ctx)
}

func (a *App) resetViews() {
	a.notes.Reset()
	a.projects.Reset()
	a.users.Reset()
}

func (a *App) isLoggedIn() bool {
	return a.manager.IsAuthenticated()
}

func (a *App) prompt() string {
	sess := a.manager.Current()
	if sess == nil {
		return "notectl> "
	}
	if sess.IsAdmin.Bool() {
		return fmt.Sprintf("notectl (%s, admin)> ", sess.Username)
	}
	return fmt.Sprintf("notectl (%s)> ", sess.Username)
}

// guardView applies the route guard before rendering a gated view. It
// reports whether the view may render, printing the redirect outcome
// otherwise and remembering the requested location on a login redirect.
func (a *App) guardView(route guard.Route) bool {
	d := guard.Decide(a.manager.Current(), a.manager.Loading(), route)
	switch d.Action {
	case guard.ActionSuspend:
		fmt.Fprintln(a.out, a.notice("Still verifying your session, try again in a moment."))
		return false
	case guard.ActionRedirect:
		if d.RedirectTo == guard.LoginPath {
			a.pendingPath = d.From
			fmt.Fprintln(a.out, a.notice("Please log in first."))
		} else {
			fmt.Fprintln(a.out, a.notice("That view is for administrators; showing notes instead."))
			a.ShowNotes(context.Background())
		}
		return false
	default:
		return true
	}
}

func (a *App) printError(err error) {
	if errors.Is(err, services.ErrBusy) {
		fmt.Fprintln(a.out, a.notice("That item is still being updated, try again in a moment."))
		return
	}
	fmt.Fprintln(a.out, a.failure("Error: %s", api.UserMessage(err)))
}
