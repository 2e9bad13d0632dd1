package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
	"github.com/SscSPs/bundle_wallet_app/internal/utils"
	"github.com/google/uuid"
)

type userService struct {
	BaseService
	userRepo           portsrepo.UserRepositoryFacade
	refreshTokenSecret string
}

// NewUserService creates the user service. refreshTokenSecret keys the stored refresh token hashes.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, refreshTokenSecret string) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, refreshTokenSecret: refreshTokenSecret}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email in service: %w", err)
	}
	return user, nil
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	phone := ""
	if req.Phone != "" {
		phone = domain.NormalizePhoneNumber(req.Phone)
		if !domain.IsValidPhoneNumber(phone) {
			return nil, fmt.Errorf("%w: invalid phone number", apperrors.ErrValidation)
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		Name:         name,
		Phone:        phone,
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
		Timestamps:   domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.createWithWallet(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) CreateOAuthUser(ctx context.Context, name, email string, provider domain.AuthProvider, providerUserID string, emailVerified bool) (*domain.User, error) {
	if providerUserID == "" {
		return nil, fmt.Errorf("%w: provider user id is required", apperrors.ErrValidation)
	}
	existing, err := s.userRepo.FindUserByProvider(ctx, provider, providerUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by provider: %w", err)
	}

	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	// A verified provider email signs into the existing local account.
	if byEmail, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		if !emailVerified {
			return nil, fmt.Errorf("%w: email is registered and not verified by %s", apperrors.ErrDuplicate, provider)
		}
		return byEmail, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = strings.Split(email, "@")[0]
	}
	now := time.Now().UTC()
	user := domain.User{
		UserID:         uuid.NewString(),
		Email:          email,
		Name:           strings.TrimSpace(name),
		AuthProvider:   provider,
		ProviderUserID: providerUserID,
		EmailVerified:  emailVerified,
		Timestamps:     domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if err := s.createWithWallet(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// createWithWallet stores the user with a zero-balance account that shares its ID.
func (s *userService) createWithWallet(ctx context.Context, user domain.User) error {
	account := domain.Account{
		AccountID:  user.UserID,
		Balance:    0,
		Timestamps: user.Timestamps,
	}
	if err := s.userRepo.CreateUserWithAccount(ctx, user, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return fmt.Errorf("email already registered: %w", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to create user", slog.String("auth_provider", string(user.AuthProvider)))
		return fmt.Errorf("failed to create user in service: %w", err)
	}
	s.LogInfo(ctx, "User registered",
		slog.String("user_id", user.UserID),
		slog.String("auth_provider", string(user.AuthProvider)))
	return nil
}

func (s *userService) Authenticate(ctx context.Context, email string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user for login: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (s *userService) SaveRefreshToken(ctx context.Context, userID string, rawToken string, expiry time.Time) error {
	hash := utils.HashRefreshToken(rawToken, s.refreshTokenSecret)
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, hash, &expiry); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, "", nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}
