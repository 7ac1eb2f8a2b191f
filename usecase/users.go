package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskboss/apierr"
	"taskboss/dto"
	"taskboss/model"
	"taskboss/repository"
)

// AI use cases a user may pin a model for.
const (
	UseCaseInvoke     = "invoke"
	UseCaseChat       = "chat"
	UseCaseQuote      = "quote"
	UseCaseTaskAdvice = "task_advice"
)

var aiUseCases = map[string]bool{
	UseCaseInvoke:     true,
	UseCaseChat:       true,
	UseCaseQuote:      true,
	UseCaseTaskAdvice: true,
}

type UserService struct {
	users *repository.UserRepo
	prefs *repository.PreferencesRepo
}

func NewUserService(users *repository.UserRepo, prefs *repository.PreferencesRepo) *UserService {
	return &UserService{users: users, prefs: prefs}
}

func (s *UserService) Me(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierr.NotFound("user not found")
	}
	return u, err
}

func (s *UserService) UpdateMe(ctx context.Context, userID int64, in *dto.UserInput) (*model.User, error) {
	patch := repository.Patch{}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, apierr.BadRequest("full_name cannot be empty")
		}
		patch["full_name"] = name
	}
	if in.Present.Has("picture") {
		picture := ""
		if in.Picture != nil {
			picture = strings.TrimSpace(*in.Picture)
		}
		patch["picture"] = picture
	}
	if len(patch) > 0 {
		err := s.users.Update(ctx, userID, patch)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound("user not found")
		}
		if err != nil {
			return nil, err
		}
	}
	return s.Me(ctx, userID)
}

// Preferences returns the user's preferences, creating the default row
// for accounts that predate it.
func (s *UserService) Preferences(ctx context.Context, userID int64) (*model.UserPreferences, error) {
	p, err := s.prefs.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.prefs.Upsert(ctx, userID, map[string]string{})
	}
	return p, err
}

func (s *UserService) UpdatePreferences(ctx context.Context, userID int64, aiModels map[string]string) (*model.UserPreferences, error) {
	clean := make(map[string]string, len(aiModels))
	for useCase, name := range aiModels {
		if !aiUseCases[useCase] {
			return nil, apierr.BadRequest(fmt.Sprintf("unknown ai use case %q", useCase))
		}
		name = strings.TrimSpace(name)
		if len(name) > 100 {
			return nil, apierr.BadRequest("model name is too long")
		}
		if name != "" {
			clean[useCase] = name
		}
	}
	return s.prefs.Upsert(ctx, userID, clean)
}
