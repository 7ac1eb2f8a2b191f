package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboss/apierr"
	"taskboss/dto"
	"taskboss/logger"
	"taskboss/model"
	"taskboss/repository"
	"taskboss/services"
	"taskboss/utils"
)

type AuthService struct {
	db        *sql.DB
	users     *repository.UserRepo
	stats     *repository.StatsRepo
	prefs     *repository.PreferencesRepo
	tokens    *services.TokenService
	blacklist services.TokenBlacklist
	log       *logger.Logger
	now       func() time.Time
}

func NewAuthService(db *sql.DB, tokens *services.TokenService, blacklist services.TokenBlacklist, log *logger.Logger) *AuthService {
	return &AuthService{
		db:        db,
		users:     repository.NewUserRepo(db),
		stats:     repository.NewStatsRepo(db),
		prefs:     repository.NewPreferencesRepo(db),
		tokens:    tokens,
		blacklist: blacklist,
		log:       log,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the user together with a zeroed stats row and default
// preferences, then issues a token.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, apierr.BadRequest("full_name is required")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		utils.TrackAuthAttempt("failure", "register")
		return nil, apierr.BadRequest("email is already registered")
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return nil, apierr.BadRequest(err.Error())
	}

	user := &model.User{
		Email:     email,
		FullName:  fullName,
		Password:  hash,
		CreatedAt: s.now().UTC(),
	}
	err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		if err := s.stats.WithTx(tx).Create(ctx, model.NewUserStats(user.ID)); err != nil {
			return err
		}
		_, err := s.prefs.WithTx(tx).Upsert(ctx, user.ID, map[string]string{})
		return err
	})
	if errors.Is(err, repository.ErrEmailTaken) {
		utils.TrackAuthAttempt("failure", "register")
		return nil, apierr.BadRequest("email is already registered")
	}
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	utils.TrackAuthAttempt("success", "register")
	s.log.Info("user registered", "user_id", user.ID)
	return &dto.AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		utils.TrackAuthAttempt("failure", "login")
		return nil, apierr.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !services.ComparePasswords(user.Password, req.Password) {
		utils.TrackAuthAttempt("failure", "login")
		return nil, apierr.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	utils.TrackAuthAttempt("success", "login")
	return &dto.AuthResponse{User: user, Token: token}, nil
}

// Authenticate verifies token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*services.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		utils.TrackAuthAttempt("failure", "token")
		return nil, apierr.Forbidden("invalid or expired token")
	}
	revoked, err := s.blacklist.IsRevoked(ctx, token)
	if err != nil {
		s.log.Error("token blacklist lookup failed", "error", err)
		return nil, fmt.Errorf("check token blacklist: %w", err)
	}
	if revoked {
		utils.TrackAuthAttempt("failure", "token")
		return nil, apierr.Forbidden("token has been revoked")
	}
	return claims, nil
}

// Logout revokes token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return apierr.Forbidden("invalid or expired token")
	}
	expiresAt := s.now().Add(s.tokens.TTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.blacklist.Revoke(ctx, token, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	utils.TrackAuthAttempt("success", "logout")
	return nil
}
