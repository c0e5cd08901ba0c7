package cli

import (
	"context"
	"fmt"

	"notectl/internal/guard"
	"notectl/internal/models"
)

// ShowUsers renders the admin user list.
func (a *App) ShowUsers(ctx context.Context) {
	if !a.guardView(guard.Route{Path: "/admin", RequiresAdmin: true}) {
		return
	}
	users, err := a.users.Reload(ctx)
	if err != nil {
		a.printError(err)
		return
	}
	for _, u := range users {
		flags := ""
		if u.IsAdmin.Bool() {
			flags += " admin"
		}
		if !u.IsActive {
			flags += " inactive"
		}
		if u.ID == models.SuperAdminID {
			flags += " primary"
		}
		fmt.Fprintf(a.out, "  [%d] %s (%s)%s\n", u.ID, u.Username, u.Role, flags)
	}
}

// AddUser creates an account from the admin view.
func (a *App) AddUser(ctx context.Context) error {
	if !a.guardView(guard.Route{Path: "/admin", RequiresAdmin: true}) {
		return nil
	}
	username, err := a.getText("Username")
	if err != nil {
		return err
	}
	password, err := a.getPassword("Password")
	if err != nil {
		return err
	}
	admin := a.confirm("Grant administrator rights?")
	role := models.RoleUser
	if admin {
		role = models.RoleAdmin
	}
	if err := a.users.Create(ctx, username, password, role, admin); err != nil {
		a.printError(err)
		return nil
	}
	fmt.Fprintln(a.out, a.success("User created."))
	return nil
}

// SetUserActive enables or disables an account.
func (a *App) SetUserActive(ctx context.Context, id int64, arg string) {
	if !a.guardView(guard.Route{Path: "/admin", RequiresAdmin: true}) {
		return
	}
	active, err := parseOnOff(arg)
	if err != nil {
		fmt.Fprintln(a.out, a.failure("%s", err))
		return
	}
	if err := a.users.SetActive(ctx, id, active); err != nil {
		a.printError(err)
		return
	}
	state := "disabled"
	if active {
		state = "active"
	}
	fmt.Fprintln(a.out, a.success("User %d is now %s.", id, state))
}

// SetUserAdmin grants or revokes administrator rights. The primary
// administrator's flag is read-only and the service refuses to change it.
func (a *App) SetUserAdmin(ctx context.Context, id int64, arg string) {
	if !a.guardView(guard.Route{Path: "/admin", RequiresAdmin: true}) {
		return
	}
	admin, err := parseOnOff(arg)
	if err != nil {
		fmt.Fprintln(a.out, a.failure("%s", err))
		return
	}
	if err := a.users.SetAdmin(ctx, id, admin); err != nil {
		a.printError(err)
		return
	}
	state := "a regular user"
	if admin {
		state = "an administrator"
	}
	fmt.Fprintln(a.out, a.success("User %d is now %s.", id, state))
}

// DeleteUser removes an account after confirmation.
func (a *App) DeleteUser(ctx context.Context, id int64) {
	if !a.guardView(guard.Route{Path: "/admin", RequiresAdmin: true}) {
		return
	}
	if !a.confirm(fmt.Sprintf("Delete user %d?", id)) {
		fmt.Fprintln(a.out, a.notice("Cancelled."))
		return
	}
	if err := a.users.Delete(ctx, id); err != nil {
		a.printError(err)
		return
	}
	fmt.Fprintln(a.out, a.success("User %d deleted.", id))
}
