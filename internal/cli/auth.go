package cli

import (
	"context"
	"fmt"
)

// Login authenticates interactively and, if a gated view was requested
// before logging in, returns to it.
func (a *App) Login(ctx context.Context) error {
	username, err := a.getText("Username")
	if err != nil {
		return err
	}
	password, err := a.getPassword("Password")
	if err != nil {
		return err
	}

	sess, err := a.manager.Login(ctx, username, password)
	if err != nil {
		a.printError(err)
		return nil
	}
	fmt.Fprintln(a.out, a.success("Logged in as %s.", sess.Username))

	if a.pendingPath != "" {
		path := a.pendingPath
		a.pendingPath = ""
		a.showPath(ctx, path)
	}
	return nil
}

// Register creates a new account. The backend leaves new accounts inactive
// until an administrator enables them, so no session is established here.
func (a *App) Register(ctx context.Context) error {
	username, err := a.getText("Username")
	if err != nil {
		return err
	}
	password, err := a.getPassword("Password")
	if err != nil {
		return err
	}

	if username == "" || password == "" {
		fmt.Fprintln(a.out, a.failure("Username and password are required."))
		return nil
	}
	if err := a.api.Register(ctx, username, password); err != nil {
		a.printError(err)
		return nil
	}
	fmt.Fprintln(a.out, a.success("Account created. An administrator must activate it before you can log in."))
	return nil
}

// Logout ends the session. It always succeeds locally even when the server
// call does not.
func (a *App) Logout(ctx context.Context) {
	a.manager.Logout(ctx)
	a.resetViews()
	a.pendingPath = ""
	fmt.Fprintln(a.out, a.notice("Logged out."))
}

// WhoAmI prints the current session.
func (a *App) WhoAmI() {
	sess := a.manager.Current()
	if sess == nil {
		fmt.Fprintln(a.out, a.notice("Not logged in."))
		return
	}
	role := "user"
	if sess.IsAdmin.Bool() {
		role = "admin"
	}
	fmt.Fprintf(a.out, "%s (id %d, %s)\n", sess.Username, sess.ID, role)
}

// showPath maps a guard path back to the view that asked for it.
func (a *App) showPath(ctx context.Context, path string) {
	switch path {
	case "/projects":
		a.ShowProjects(ctx)
	case "/admin":
		a.ShowUsers(ctx)
	default:
		a.ShowNotes(ctx)
	}
}
