package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/userkeeper/internal/logger"
	"github.com/dtroode/userkeeper/internal/model"
	"github.com/dtroode/userkeeper/internal/validation"
)

// dummyPassword is hashed once and compared against on logins for unknown
// emails so that both failure paths spend a bcrypt comparison.
const dummyPassword = "userkeeper-timing-equalizer"

type Auth struct {
	users        *Users
	tokenManager model.TokenManager
	logger       *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuth(users *Users, tokenManager model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		users:        users,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// Register creates a user and returns a session for it.
func (a *Auth) Register(ctx context.Context, params model.CreateUserParams) (model.Session, error) {
	a.logger.Debug("Auth service: starting user registration")

	user, err := a.users.Create(ctx, params)
	if err != nil {
		return model.Session{}, err
	}

	token, err := a.issue(user.ID)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"user_id", user.ID)

	return model.Session{Token: token, User: user}, nil
}

// Login authenticates an active user by email and password. Unknown emails
// and wrong passwords fail identically.
func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, error) {
	email, violations := validation.Credentials(email, password)
	if len(violations) > 0 {
		return model.Session{}, model.NewValidationError(violations)
	}

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.users.store.GetActiveByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.users.hasher.Verify(password, a.dummyDigest())
		a.logger.Info("Auth service: login for unknown email",
			"email", email)
		return model.Session{}, model.NewInvalidCredentialsError()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, model.NewInternalError(fmt.Errorf("failed to get user by email: %w", err))
	}

	if !a.users.hasher.Verify(password, user.PasswordHash) {
		a.logger.Info("Auth service: password mismatch",
			"user_id", user.ID)
		return model.Session{}, model.NewInvalidCredentialsError()
	}

	at := a.users.now().UTC()
	if err := a.users.store.UpdateLastLogin(ctx, user.ID, at); err != nil {
		a.logger.Error("Auth service: failed to record last login",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, model.NewInternalError(fmt.Errorf("failed to update last login: %w", err))
	}
	user.LastLogin = &at

	token, err := a.issue(user.ID)
	if err != nil {
		return model.Session{}, err
	}

	a.logger.Info("Auth service: user login completed successfully",
		"user_id", user.ID)

	return model.Session{Token: token, User: user}, nil
}

// Profile returns the authenticated caller's record.
func (a *Auth) Profile(ctx context.Context, userID uuid.UUID) (model.User, error) {
	return a.users.GetByID(ctx, userID)
}

// ResolveIdentity maps a bearer token to an active user. Every token or
// subject problem is an invalid token; store failures are internal.
func (a *Auth) ResolveIdentity(ctx context.Context, token string) (model.Identity, error) {
	userID, err := a.tokenManager.Verify(token)
	if err != nil {
		a.logger.Debug("Auth service: token rejected",
			"error", err.Error())
		return model.Identity{}, model.NewInvalidTokenError(err)
	}

	user, err := a.users.store.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, model.NewInvalidTokenError(err)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to resolve token subject",
			"user_id", userID,
			"error", err.Error())
		return model.Identity{}, model.NewInternalError(fmt.Errorf("failed to get user: %w", err))
	}
	if !user.IsActive {
		return model.Identity{}, model.NewInvalidTokenError(errors.New("user is inactive"))
	}

	return model.Identity{UserID: user.ID, Role: user.Role}, nil
}

func (a *Auth) issue(userID uuid.UUID) (string, error) {
	token, err := a.tokenManager.Issue(userID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", userID,
			"error", err.Error())
		return "", model.NewInternalError(fmt.Errorf("failed to issue token: %w", err))
	}
	return token, nil
}

func (a *Auth) dummyDigest() string {
	a.dummyOnce.Do(func() {
		digest, err := a.users.hasher.Hash(dummyPassword)
		if err != nil {
			a.logger.Warn("Auth service: failed to prepare dummy digest",
				"error", err.Error())
			return
		}
		a.dummyHash = digest
	})
	return a.dummyHash
}
