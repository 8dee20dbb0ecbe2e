package service

import (
	"context"
	"fmt"
	"strings"

	"heritage-api/internal/auth"
	"heritage-api/internal/model"
	"heritage-api/internal/repository"

	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	plans    []model.SubscriptionPlan
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	plans []model.SubscriptionPlan,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		plans:    plans,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates an account with a bcrypt-hashed password and returns a
// bearer token for it.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	} else if existing != nil {
		return nil, model.ErrEmailTaken
	}

	if existing, err := s.userRepo.GetByUsername(ctx, req.Username); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	} else if existing != nil {
		return nil, model.ErrUsernameTaken
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	user := &model.User{
		Email:            req.Email,
		Username:         req.Username,
		HashedPassword:   hashed,
		FullName:         req.FullName,
		SubscriptionTier: "free",
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	return s.issueToken(user.ID)
}

// Login verifies credentials and returns a bearer token.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if user == nil || !auth.VerifyPassword(user.HashedPassword, req.Password) {
		return nil, model.ErrInvalidCredentials
	}

	return s.issueToken(user.ID)
}

func (s *authService) issueToken(userID int64) (*model.TokenResponse, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &model.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Plans returns the static subscription plan list.
func (s *authService) Plans() []model.SubscriptionPlan {
	return s.plans
}

// SelectPlan switches the user's subscription tier to the named plan.
func (s *authService) SelectPlan(ctx context.Context, userID, planID int64) (*model.SelectPlanResponse, error) {
	var plan *model.SubscriptionPlan
	for i := range s.plans {
		if s.plans[i].ID == planID {
			plan = &s.plans[i]
			break
		}
	}
	if plan == nil {
		return nil, model.ErrPlanNotFound
	}

	// Tier is the lowercased plan name, matching the registration default
	// "free".
	tier := strings.ToLower(plan.Name)

	if err := s.userRepo.UpdateSubscriptionTier(ctx, userID, tier); err != nil {
		return nil, fmt.Errorf("failed to select plan: %w", err)
	}

	s.logger.Info().Int64("user_id", userID).Str("tier", tier).Msg("subscription tier changed")

	return &model.SelectPlanResponse{Message: "Plan selected", Plan: *plan}, nil
}
