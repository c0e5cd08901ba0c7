// Package guard decides whether a view may render for the current
// authentication state. It is a pure decision function: the only output is
// where to go next.
package guard

import "notectl/internal/models"

// Route describes the view being navigated to.
type Route struct {
	Path          string
	RequiresAdmin bool
}

// Well-known redirect targets.
const (
	LoginPath = "/login"
	NotesPath = "/notes"
)

// Action is the outcome of a guard decision.
type Action int

const (
	// ActionSuspend: session verification is still pending, render nothing.
	ActionSuspend Action = iota
	// ActionRedirect: navigate to RedirectTo instead of rendering.
	ActionRedirect
	// ActionAllow: render the requested view.
	ActionAllow
)

// Decision is the result of Decide. From carries the originally requested
// path on a login redirect so the caller can return there after login.
type Decision struct {
	Action     Action
	RedirectTo string
	From       string
}

// Decide gates route against the session state.
//
// While loading, the decision is suspended so an unverified cached session
// never causes a premature redirect. Unauthenticated users go to login,
// keeping the requested location. Admin-only routes admit only sessions whose
// admin flag ingested as a literal boolean true; anything looser bounces to
// the notes list, not to an error page.
func Decide(sess *models.Session, loading bool, route Route) Decision {
	if loading {
		return Decision{Action: ActionSuspend}
	}

	if !sess.Valid() {
		return Decision{Action: ActionRedirect, RedirectTo: LoginPath, From: route.Path}
	}

	if route.RequiresAdmin && !sess.IsAdmin.Bool() {
		return Decision{Action: ActionRedirect, RedirectTo: NotesPath}
	}

	return Decision{Action: ActionAllow}
}
