package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitmrp-client/internal/api"
	"fitmrp-client/internal/auth"
	"fitmrp-client/internal/logger"
	"fitmrp-client/internal/tokenstore"

	"go.uber.org/zap"
)

// Gateway is the part of the remote API used for authentication.
type Gateway interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) error
}

type Service interface {
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Signup(ctx context.Context, p SignupParams) error
	Restore(ctx context.Context) (*auth.Session, error)
	Logout(ctx context.Context) error
}

type service struct {
	gateway Gateway
	store   tokenstore.Store
	profile string
	now     func() time.Time
}

// NewService binds authentication to one credential-store profile.
func NewService(gateway Gateway, store tokenstore.Store, profile string) Service {
	return &service{
		gateway: gateway,
		store:   store,
		profile: profile,
		now:     time.Now,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	log := logger.FromCtx(ctx)

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	res, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		log.Warn("login failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if res.User == nil {
		return nil, api.ErrMissingUser
	}

	session := auth.NewSession(res.User.ID.String(), res.User.Email, res.User.Name, res.Token)
	if session.Email == "" {
		session.Email = email
	}

	// The session is usable even when it cannot be persisted.
	if err := s.store.Save(ctx, s.profile, session); err != nil {
		log.Warn("failed to persist session", zap.String("profile", s.profile), zap.Error(err))
	}

	log.Info("login completed",
		zap.String("user_id", session.UserID),
		zap.String("email", session.Email),
	)
	return session, nil
}

func (s *service) Signup(ctx context.Context, p SignupParams) error {
	log := logger.FromCtx(ctx)

	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	switch {
	case p.Name == "":
		return ErrNameRequired
	case p.Email == "":
		return ErrEmailRequired
	case p.Password == "":
		return ErrPasswordRequired
	}

	err := s.gateway.Signup(ctx, api.SignupRequest{
		Name:     p.Name,
		Email:    p.Email,
		Password: p.Password,
		RoleID:   RoleCustomer,
	})
	if err != nil {
		log.Error("signup failed", zap.String("email", p.Email), zap.Error(err))
		return err
	}

	log.Info("signup completed", zap.String("email", p.Email))
	return nil
}

// Restore returns the persisted session. An expired session is cleared and
// reported as auth.ErrSessionExpired.
func (s *service) Restore(ctx context.Context) (*auth.Session, error) {
	session, err := s.store.Load(ctx, s.profile)
	if err != nil {
		if errors.Is(err, tokenstore.ErrNotFound) {
			return nil, auth.ErrNoSession
		}
		return nil, err
	}

	if err := session.Validate(s.now()); err != nil {
		if errors.Is(err, auth.ErrSessionExpired) {
			if cerr := s.store.Clear(ctx, s.profile); cerr != nil {
				logger.FromCtx(ctx).Warn("failed to clear expired session", zap.Error(cerr))
			}
		}
		return nil, err
	}

	return session, nil
}

func (s *service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx, s.profile); err != nil {
		logger.FromCtx(ctx).Error("failed to clear session", zap.String("profile", s.profile), zap.Error(err))
		return err
	}
	return nil
}
