package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"notectl/internal/api"
	"notectl/internal/guard"
	"notectl/internal/models"
)

func visibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

// ShowNotes renders the notes view: one section per project, default
// section for notes without one.
func (a *App) ShowNotes(ctx context.Context) {
	if !a.guardView(guard.Route{Path: guard.NotesPath}) {
		return
	}
	if _, err := a.notes.Reload(ctx); err != nil {
		a.printError(err)
		if len(a.notes.Current()) == 0 {
			return
		}
		fmt.Fprintln(a.out, a.notice("Showing the last loaded state."))
	}

	groups := a.notes.Groups()
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No notes yet.")
		return
	}
	for _, g := range groups {
		header := g.Project
		if g.Key == models.DefaultGroupKey {
			header = "No project"
		}
		marker := ""
		if g.AllPublic() {
			marker = " [all public]"
		}
		fmt.Fprintf(a.out, "%s%s\n", a.notice("== %s (%s)", header, g.Key), marker)
		for _, n := range g.Notes {
			owner := ""
			if n.Username != "" {
				owner = " by " + n.Username
			}
			fmt.Fprintf(a.out, "  [%d] %s (%s)%s\n", n.ID, n.Title, visibility(n.IsPublic), owner)
		}
	}
}

// ShowNote prints a single note with its content.
func (a *App) ShowNote(ctx context.Context, id int64) {
	if !a.guardView(guard.Route{Path: guard.NotesPath}) {
		return
	}
	n, err := a.notes.Get(ctx, id)
	if err != nil {
		a.printError(err)
		return
	}
	fmt.Fprintf(a.out, "%s\n", a.success("[%d] %s (%s)", n.ID, n.Title, visibility(n.IsPublic)))
	if n.Project != "" {
		fmt.Fprintf(a.out, "Project: %s\n", n.Project)
	}
	if n.Username != "" {
		fmt.Fprintf(a.out, "Author: %s\n", n.Username)
	}
	fmt.Fprintln(a.out, n.Content)
}

// AddNote creates a note interactively. The create control is an
// administrator feature, like the original "new note" page.
func (a *App) AddNote(ctx context.Context) error {
	if !a.guardView(guard.Route{Path: "/notes/new", RequiresAdmin: true}) {
		return nil
	}
	title, err := a.getText("Title")
	if err != nil {
		return err
	}
	content, err := a.getMultiline("Content")
	if err != nil {
		return err
	}
	public := a.confirm("Make the note public?")

	projectID, err := a.chooseProject(ctx)
	if err != nil {
		return err
	}

	if err := a.notes.Create(ctx, title, content, public, projectID); err != nil {
		a.printError(err)
		return nil
	}
	fmt.Fprintln(a.out, a.success("Note created."))
	return nil
}

// chooseProject lists projects and reads an optional project id.
// An empty answer means no project.
func (a *App) chooseProject(ctx context.Context) (*int64, error) {
	projects, err := a.projects.Reload(ctx)
	if err != nil || len(projects) == 0 {
		return nil, nil
	}
	for _, p := range projects {
		fmt.Fprintf(a.out, "  [%d] %s\n", p.ID, p.Name)
	}
	answer, err := a.getText("Project id (empty for none)")
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(answer, 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, a.failure("Not a project id: %s", answer))
		return nil, nil
	}
	return &id, nil
}

// mayModify mirrors the edit/delete controls of the original notes view:
// admins touch everything, everyone else only their own notes. The backend
// re-checks either way.
func (a *App) mayModify(n *models.Note) bool {
	sess := a.manager.Current()
	if sess == nil {
		return false
	}
	return sess.IsAdmin.Bool() || n.OwnedBy(sess.ID)
}

// EditNote updates title and content of an existing note. Empty answers
// keep the current values.
func (a *App) EditNote(ctx context.Context, id int64) error {
	if !a.guardView(guard.Route{Path: guard.NotesPath}) {
		return nil
	}
	current, err := a.notes.Get(ctx, id)
	if err != nil {
		a.printError(err)
		return nil
	}
	if !a.mayModify(current) {
		fmt.Fprintln(a.out, a.failure("You can only edit your own notes."))
		return nil
	}

	title, err := a.getText(fmt.Sprintf("Title [%s]", current.Title))
	if err != nil {
		return err
	}
	content, err := a.getMultiline("Content (empty keeps current)")
	if err != nil {
		return err
	}

	patch := api.NotePatch{}
	if title != "" {
		patch.Title = &title
	}
	if content != "" {
		patch.Content = &content
	}
	if patch.Title == nil && patch.Content == nil {
		fmt.Fprintln(a.out, a.notice("Nothing to change."))
		return nil
	}
	if err := a.notes.Update(ctx, id, patch); err != nil {
		a.printError(err)
		return nil
	}
	fmt.Fprintln(a.out, a.success("Note %d updated.", id))
	return nil
}

// DeleteNote removes a note after confirmation.
func (a *App) DeleteNote(ctx context.Context, id int64) {
	if !a.guardView(guard.Route{Path: guard.NotesPath}) {
		return
	}
	n, err := a.notes.Get(ctx, id)
	if err != nil {
		a.printError(err)
		return
	}
	if !a.mayModify(n) {
		fmt.Fprintln(a.out, a.failure("You can only delete your own notes."))
		return
	}
	if !a.confirm(fmt.Sprintf("Delete note %d?", id)) {
		fmt.Fprintln(a.out, a.notice("Cancelled."))
		return
	}
	if err := a.notes.Delete(ctx, id); err != nil {
		a.printError(err)
		return
	}
	fmt.Fprintln(a.out, a.success("Note %d deleted.", id))
}

// ToggleNote flips a single note between public and private.
func (a *App) ToggleNote(ctx context.Context, id int64, arg string) {
	if !a.guardView(guard.Route{Path: guard.NotesPath}) {
		return
	}
	public, err := parseOnOff(arg)
	if err != nil {
		fmt.Fprintln(a.out, a.failure("%s", err))
		return
	}
	if err := a.notes.ToggleVisibility(ctx, id, public); err != nil {
		a.printError(err)
		return
	}
	fmt.Fprintln(a.out, a.success("Note %d is now %s.", id, visibility(public)))
}

// ToggleProject sets the visibility of every note in a project group.
// Some notes may fail while others succeed; the view reloads either way.
func (a *App) ToggleProject(ctx context.Context, key, arg string) {
	if !a.guardView(guard.Route{Path: guard.NotesPath}) {
		return
	}
	public, err := parseOnOff(arg)
	if err != nil {
		fmt.Fprintln(a.out, a.failure("%s", err))
		return
	}
	if err := a.notes.SetProjectVisibility(ctx, strings.TrimSpace(key), public); err != nil {
		a.printError(err)
		fmt.Fprintln(a.out, a.notice("Some notes may have been updated anyway; the list was refreshed."))
		return
	}
	fmt.Fprintln(a.out, a.success("Project %s notes are now %s.", key, visibility(public)))
}
