package services

import (
	"context"
	"fmt"

	"notectl/internal/api"
	"notectl/internal/logging"
	"notectl/internal/models"
)

// Projects is the sync flow for the projects resource. Project management is
// an admin view; the flags sent here are advisory and re-checked server-side.
type Projects struct {
	client api.Client
	sess   SessionSource
	log    logging.Logger
	view   view[models.Project]
}

func NewProjects(client api.Client, sess SessionSource, log logging.Logger) *Projects {
	return &Projects{client: client, sess: sess, log: log.With("component", "projects")}
}

func (s *Projects) Reload(ctx context.Context) ([]models.Project, error) {
	gen := s.view.generation()

	projects, err := s.client.ListProjects(ctx)
	if err != nil {
		return s.view.snapshot(), fmt.Errorf("loading projects: %w", err)
	}
	if !s.view.apply(gen, projects) {
		return s.view.snapshot(), nil
	}
	return projects, nil
}

func (s *Projects) Current() []models.Project {
	return s.view.snapshot()
}

func (s *Projects) Reset() {
	s.view.reset()
}

func (s *Projects) Create(ctx context.Context, name, description string) error {
	if name == "" {
		return &api.Error{Kind: api.ErrValidation, Message: "Project name is required"}
	}
	sess := s.sess()
	if !sess.Valid() {
		return &api.Error{Kind: api.ErrUnauthorized}
	}

	if !s.view.tryAcquire(0) {
		return ErrBusy
	}
	defer s.view.release(0)

	draft := api.ProjectDraft{
		Name:        name,
		Description: description,
		UserID:      sess.ID,
		IsAdmin:     sess.IsAdmin.Bool(),
	}
	if err := s.client.CreateProject(ctx, draft); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}

	_, err := s.Reload(ctx)
	return err
}

func (s *Projects) Update(ctx context.Context, id int64, name, description string) error {
	if !s.view.tryAcquire(id) {
		return ErrBusy
	}
	defer s.view.release(id)

	draft := api.ProjectDraft{Name: name, Description: description}
	if err := s.client.UpdateProject(ctx, id, draft); err != nil {
		return fmt.Errorf("updating project %d: %w", id, err)
	}

	_, err := s.Reload(ctx)
	return err
}

func (s *Projects) Delete(ctx context.Context, id int64) error {
	if !s.view.tryAcquire(id) {
		return ErrBusy
	}
	defer s.view.release(id)

	if err := s.client.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}

	_, err := s.Reload(ctx)
	return err
}
