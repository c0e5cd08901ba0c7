package services

import (
	"context"
	"fmt"

	"notectl/internal/api"
	"notectl/internal/logging"
	"notectl/internal/models"
)

// Users is the sync flow for admin user management. Every mutation carries
// the caller's advisory admin claim for the backend to re-validate.
type Users struct {
	client api.Client
	sess   SessionSource
	log    logging.Logger
	view   view[models.User]
}

func NewUsers(client api.Client, sess SessionSource, log logging.Logger) *Users {
	return &Users{client: client, sess: sess, log: log.With("component", "users")}
}

func (s *Users) requestingAdmin() bool {
	sess := s.sess()
	return sess.Valid() && sess.IsAdmin.Bool()
}

func (s *Users) Reload(ctx context.Context) ([]models.User, error) {
	gen := s.view.generation()

	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return s.view.snapshot(), fmt.Errorf("loading users: %w", err)
	}
	if !s.view.apply(gen, users) {
		return s.view.snapshot(), nil
	}
	return users, nil
}

func (s *Users) Current() []models.User {
	return s.view.snapshot()
}

func (s *Users) Reset() {
	s.view.reset()
}

func (s *Users) Create(ctx context.Context, username, password, role string, isAdmin bool) error {
	if username == "" || password == "" {
		return &api.Error{Kind: api.ErrValidation, Message: "Username and password are required"}
	}

	if !s.view.tryAcquire(0) {
		return ErrBusy
	}
	defer s.view.release(0)

	draft := api.UserDraft{
		Username:              username,
		Password:              password,
		Role:                  role,
		IsAdmin:               isAdmin,
		RequestingUserIsAdmin: s.requestingAdmin(),
	}
	if err := s.client.CreateUser(ctx, draft); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	_, err := s.Reload(ctx)
	return err
}

// SetActive enables or disables an account.
func (s *Users) SetActive(ctx context.Context, id int64, active bool) error {
	requesting := s.requestingAdmin()
	return s.update(ctx, id, api.UserPatch{IsActive: &active, RequestingUserIsAdmin: &requesting})
}

// SetAdmin grants or revokes the admin flag. The primary administrator's
// flag is read-only from client tooling.
func (s *Users) SetAdmin(ctx context.Context, id int64, admin bool) error {
	if id == models.SuperAdminID {
		return &api.Error{Kind: api.ErrForbidden, Message: "The primary administrator cannot be modified"}
	}
	requesting := s.requestingAdmin()
	return s.update(ctx, id, api.UserPatch{IsAdmin: &admin, RequestingUserIsAdmin: &requesting})
}

func (s *Users) update(ctx context.Context, id int64, patch api.UserPatch) error {
	if !s.view.tryAcquire(id) {
		return ErrBusy
	}
	defer s.view.release(id)

	if err := s.client.UpdateUser(ctx, id, patch); err != nil {
		return fmt.Errorf("updating user %d: %w", id, err)
	}

	_, err := s.Reload(ctx)
	return err
}

func (s *Users) Delete(ctx context.Context, id int64) error {
	if !s.view.tryAcquire(id) {
		return ErrBusy
	}
	defer s.view.release(id)

	if err := s.client.DeleteUser(ctx, id, s.requestingAdmin()); err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}

	_, err := s.Reload(ctx)
	return err
}
