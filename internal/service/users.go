package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/userkeeper/internal/logger"
	"github.com/dtroode/userkeeper/internal/model"
	"github.com/dtroode/userkeeper/internal/validation"
)

// Users is the user directory: validated creation, lookup, paginated
// listing, profile updates and soft deletion.
type Users struct {
	store  model.UserStore
	hasher model.PasswordHasher
	logger *logger.Logger
	now    func() time.Time
}

func NewUsers(store model.UserStore, hasher model.PasswordHasher, logger *logger.Logger) *Users {
	return &Users{
		store:  store,
		hasher: hasher,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates params and stores a new active user with the default role.
func (u *Users) Create(ctx context.Context, params model.CreateUserParams) (model.User, error) {
	params, violations := validation.NewUser(params)
	if len(violations) > 0 {
		u.logger.Debug("Users service: rejected invalid user input",
			"violations", len(violations))
		return model.User{}, model.NewValidationError(violations)
	}

	exists, err := u.store.ExistsByEmail(ctx, params.Email)
	if err != nil {
		u.logger.Error("Users service: failed to check email",
			"error", err.Error())
		return model.User{}, model.NewInternalError(fmt.Errorf("failed to check email: %w", err))
	}
	if exists {
		u.logger.Info("Users service: email already taken",
			"email", params.Email)
		return model.User{}, model.NewDuplicateError("email", model.ErrDuplicateEmail)
	}

	digest, err := u.hasher.Hash(params.Password)
	if err != nil {
		u.logger.Error("Users service: failed to hash password",
			"error", err.Error())
		return model.User{}, model.NewInternalError(err)
	}

	now := u.now().UTC()
	user := model.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: digest,
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := u.store.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			u.logger.Info("Users service: email taken by concurrent write",
				"email", params.Email)
			return model.User{}, model.NewDuplicateError("email", err)
		}
		u.logger.Error("Users service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, model.NewInternalError(fmt.Errorf("failed to create user: %w", err))
	}

	u.logger.Info("Users service: user created",
		"user_id", saved.ID)

	return saved, nil
}

// Get returns the user with the given id regardless of its active state.
// An id that does not parse is reported as not found.
func (u *Users) Get(ctx context.Context, id string) (model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return model.User{}, model.NewNotFoundError(model.ErrNotFound)
	}
	return u.GetByID(ctx, userID)
}

func (u *Users) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := u.store.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.NewNotFoundError(err)
	}
	if err != nil {
		u.logger.Error("Users service: failed to get user",
			"user_id", id,
			"error", err.Error())
		return model.User{}, model.NewInternalError(fmt.Errorf("failed to get user: %w", err))
	}
	return user, nil
}

// List returns one page of active users, newest first.
func (u *Users) List(ctx context.Context, req model.PageRequest) (model.UserPage, error) {
	req = model.NewPageRequest(req.Page, req.Limit)

	var (
		users []model.User
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = u.store.ListActive(gctx, req.Offset(), req.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = u.store.CountActive(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		u.logger.Error("Users service: failed to list users",
			"page", req.Page,
			"limit", req.Limit,
			"error", err.Error())
		return model.UserPage{}, model.NewInternalError(fmt.Errorf("failed to list users: %w", err))
	}

	return model.UserPage{
		Users:      users,
		Pagination: model.NewPagination(req, total),
	}, nil
}

// Update changes name and email only. Validation runs before the record is
// looked up.
func (u *Users) Update(ctx context.Context, id string, params model.UpdateUserParams) (model.User, error) {
	params, violations := validation.Profile(params)
	if len(violations) > 0 {
		return model.User{}, model.NewValidationError(violations)
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return model.User{}, model.NewNotFoundError(model.ErrNotFound)
	}

	user, err := u.store.Update(ctx, userID, params.Name, params.Email)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return model.User{}, model.NewNotFoundError(err)
	case errors.Is(err, model.ErrDuplicateEmail):
		u.logger.Info("Users service: update collides with existing email",
			"user_id", userID)
		return model.User{}, model.NewDuplicateError("email", err)
	case err != nil:
		u.logger.Error("Users service: failed to update user",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, model.NewInternalError(fmt.Errorf("failed to update user: %w", err))
	}

	u.logger.Info("Users service: user updated",
		"user_id", userID)

	return user, nil
}

// SoftDelete deactivates the user. Deactivating an inactive user succeeds.
func (u *Users) SoftDelete(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return model.NewNotFoundError(model.ErrNotFound)
	}

	err = u.store.SoftDelete(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewNotFoundError(err)
	}
	if err != nil {
		u.logger.Error("Users service: failed to delete user",
			"user_id", userID,
			"error", err.Error())
		return model.NewInternalError(fmt.Errorf("failed to delete user: %w", err))
	}

	u.logger.Info("Users service: user deactivated",
		"user_id", userID)

	return nil
}
