package cli

import (
	"context"
	"fmt"

	"notectl/internal/guard"
)

// ShowProjects renders the project management view. Administrators only.
func (a *App) ShowProjects(ctx context.Context) {
	if !a.guardView(guard.Route{Path: "/projects", RequiresAdmin: true}) {
		return
	}
	projects, err := a.projects.Reload(ctx)
	if err != nil {
		a.printError(err)
		return
	}
	if len(projects) == 0 {
		fmt.Fprintln(a.out, "No projects yet.")
		return
	}
	for _, p := range projects {
		fmt.Fprintf(a.out, "  [%d] %s", p.ID, p.Name)
		if p.Description != "" {
			fmt.Fprintf(a.out, " - %s", p.Description)
		}
		fmt.Fprintln(a.out)
	}
}

// AddProject creates a project interactively.
func (a *App) AddProject(ctx context.Context) error {
	if !a.guardView(guard.Route{Path: "/projects", RequiresAdmin: true}) {
		return nil
	}
	name, err := a.getText("Name")
	if err != nil {
		return err
	}
	description, err := a.getText("Description")
	if err != nil {
		return err
	}
	if err := a.projects.Create(ctx, name, description); err != nil {
		a.printError(err)
		return nil
	}
	fmt.Fprintln(a.out, a.success("Project created."))
	return nil
}

// EditProject updates a project's name and description. Empty answers keep
// the current values.
func (a *App) EditProject(ctx context.Context, id int64) error {
	if !a.guardView(guard.Route{Path: "/projects", RequiresAdmin: true}) {
		return nil
	}
	var current string
	for _, p := range a.projects.Current() {
		if p.ID == id {
			current = p.Name
			break
		}
	}

	prompt := "Name"
	if current != "" {
		prompt = fmt.Sprintf("Name [%s]", current)
	}
	name, err := a.getText(prompt)
	if err != nil {
		return err
	}
	if name == "" {
		name = current
	}
	description, err := a.getText("Description")
	if err != nil {
		return err
	}
	if err := a.projects.Update(ctx, id, name, description); err != nil {
		a.printError(err)
		return nil
	}
	fmt.Fprintln(a.out, a.success("Project %d updated.", id))
	return nil
}

// DeleteProject removes a project after confirmation. Notes that referenced
// it fall back to the default group on the next reload.
func (a *App) DeleteProject(ctx context.Context, id int64) {
	if !a.guardView(guard.Route{Path: "/projects", RequiresAdmin: true}) {
		return
	}
	if !a.confirm(fmt.Sprintf("Delete project %d?", id)) {
		fmt.Fprintln(a.out, a.notice("Cancelled."))
		return
	}
	if err := a.projects.Delete(ctx, id); err != nil {
		a.printError(err)
		return
	}
	fmt.Fprintln(a.out, a.success("Project %d deleted.", id))
}
