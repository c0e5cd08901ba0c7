package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"notectl/internal/api"
	"notectl/internal/logging"
	"notectl/internal/models"
)

// SessionSource yields the current session snapshot, or nil when logged out.
// Services use it for advisory ownership/role claims only; the backend is
// the authority.
type SessionSource func() *models.Session

// Notes is the sync flow for the notes resource.
type Notes struct {
	client api.Client
	sess   SessionSource
	log    logging.Logger
	view   view[models.Note]
}

func NewNotes(client api.Client, sess SessionSource, log logging.Logger) *Notes {
	return &Notes{client: client, sess: sess, log: log.With("component", "notes")}
}

func (s *Notes) isAdmin() bool {
	sess := s.sess()
	return sess.Valid() && sess.IsAdmin.Bool()
}

// Reload fetches the authoritative note list. On failure the previously
// displayed list is kept; a reload that was invalidated while in flight is
// discarded and the current list returned instead.
func (s *Notes) Reload(ctx context.Context) ([]models.Note, error) {
	gen := s.view.generation()

	notes, err := s.client.ListNotes(ctx)
	if err != nil {
		return s.view.snapshot(), fmt.Errorf("loading notes: %w", err)
	}
	if !s.view.apply(gen, notes) {
		s.log.Debug(ctx, "discarding stale note reload")
		return s.view.snapshot(), nil
	}
	return notes, nil
}

// Current returns the last loaded list without touching the network.
func (s *Notes) Current() []models.Note {
	return s.view.snapshot()
}

// Groups derives the project grouping from the current list. The grouping is
// rebuilt on every call and never cached.
func (s *Notes) Groups() []models.ProjectGroup {
	return models.GroupByProject(s.view.snapshot())
}

// Reset clears the view, e.g. on logout. In-flight reloads become stale.
func (s *Notes) Reset() {
	s.view.reset()
}

func (s *Notes) Get(ctx context.Context, id int64) (*models.Note, error) {
	return s.client.GetNote(ctx, id, s.isAdmin())
}

// Create posts a new note and reloads. The project is fixed at creation.
func (s *Notes) Create(ctx context.Context, title, content string, isPublic bool, projectID *int64) error {
	if title == "" || content == "" {
		return &api.Error{Kind: api.ErrValidation, Message: "Title and content are required"}
	}
	sess := s.sess()
	if !sess.Valid() {
		return &api.Error{Kind: api.ErrUnauthorized}
	}

	if !s.view.tryAcquire(0) {
		return ErrBusy
	}
	defer s.view.release(0)

	draft := api.NoteDraft{
		Title:     title,
		Content:   content,
		IsPublic:  isPublic,
		UserID:    sess.ID,
		ProjectID: projectID,
	}
	if _, err := s.client.CreateNote(ctx, draft); err != nil {
		return fmt.Errorf("creating note: %w", err)
	}

	_, err := s.Reload(ctx)
	return err
}

// Update applies a partial edit and reloads. A second update for the same
// note while one is in flight fails with ErrBusy.
func (s *Notes) Update(ctx context.Context, id int64, patch api.NotePatch) error {
	if !s.view.tryAcquire(id) {
		return ErrBusy
	}
	defer s.view.release(id)

	if err := s.client.UpdateNote(ctx, id, patch); err != nil {
		return fmt.Errorf("updating note %d: %w", id, err)
	}

	_, err := s.Reload(ctx)
	return err
}

// ToggleVisibility flips a single note's isPublic flag.
func (s *Notes) ToggleVisibility(ctx context.Context, id int64, public bool) error {
	return s.Update(ctx, id, api.NotePatch{IsPublic: &public})
}

// Delete removes a note and reloads.
func (s *Notes) Delete(ctx context.Context, id int64) error {
	if !s.view.tryAcquire(id) {
		return ErrBusy
	}
	defer s.view.release(id)

	if err := s.client.DeleteNote(ctx, id, s.isAdmin()); err != nil {
		return fmt.Errorf("deleting note %d: %w", id, err)
	}

	_, err := s.Reload(ctx)
	return err
}

// SetProjectVisibility sets isPublic on every note in the group, one update
// per note, awaiting all of them before reloading. The batch is not atomic:
// individual failures are collected, the reload still runs, and the caller
// gets the combined failure notice.
func (s *Notes) SetProjectVisibility(ctx context.Context, groupKey string, public bool) error {
	var target *models.ProjectGroup
	for _, g := range s.Groups() {
		if g.Key == groupKey {
			target = &g
			break
		}
	}
	if target == nil {
		return &api.Error{Kind: api.ErrNotFound, Message: "No such project group"}
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, note := range target.Notes {
		wg.Add(1)
		go func(note models.Note) {
			defer wg.Done()
			patch := api.NotePatch{
				ID:              note.ID,
				Title:           &note.Title,
				Content:         &note.Content,
				IsPublic:        &public,
				ProjectID:       note.ProjectID,
				IsProjectUpdate: true,
			}
			if err := s.client.UpdateNote(ctx, note.ID, patch); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("note %d: %w", note.ID, err))
				mu.Unlock()
			}
		}(note)
	}
	wg.Wait()

	if _, err := s.Reload(ctx); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		s.log.Warn(ctx, "project visibility toggle completed with failures",
			"group", groupKey, "failed", len(errs), "total", len(target.Notes))
		return errors.Join(errs...)
	}
	return nil
}
