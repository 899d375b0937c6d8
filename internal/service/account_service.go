package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketgrid/orders-api/internal/auth"
	"github.com/marketgrid/orders-api/internal/domain"
	"github.com/marketgrid/orders-api/internal/mapper"
	"github.com/marketgrid/orders-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountService handles registration, email confirmation, login, token
// refresh and the profile. Passwords are stored as bcrypt hashes only.
type AccountService struct {
	db            *gorm.DB
	userRepo      *repository.UserRepository
	tokens        *auth.TokenManager
	notifications *NotificationService
	logger        *zap.Logger
}

func NewAccountService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	tokens *auth.TokenManager,
	notifications *NotificationService,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		db:            db,
		userRepo:      userRepo,
		tokens:        tokens,
		notifications: notifications,
		logger:        logger,
	}
}

// Register creates the account with an empty basket and mails the email
// confirmation link. Username and email must both be unused.
func (s *AccountService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.UserDTO, error) {
	taken, err := s.userRepo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if taken {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userType := req.UserType
	if userType == "" {
		userType = domain.UserTypeBuyer
	}
	if userType == domain.UserTypeSupplier && req.Company == "" {
		return nil, fmt.Errorf("%w: company is required for supplier accounts", ErrInvalidInput)
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Type:         userType,
		Company:      req.Company,
		Position:     req.Position,
	}

	// User and basket are created together; a duplicate slipping past the
	// pre-check still fails on the unique indexes.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repository.NewUserRepository(tx)
		orderRepo := repository.NewOrderRepository(tx)

		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		if _, err := orderRepo.GetOrCreateBasket(ctx, user.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if token, err := s.tokens.IssueConfirm(user); err != nil {
		s.logger.Error("Failed to issue confirmation token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	} else {
		s.notifications.SendRegistrationConfirmation(user, token)
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// ConfirmEmail marks the account confirmed from the mailed token.
// Confirming twice is a no-op.
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) error {
	userCtx, err := s.tokens.Verify(token, auth.TokenUseConfirm)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if user.EmailConfirmed {
		return nil
	}
	user.EmailConfirmed = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}

	s.logger.Info("Email confirmed", zap.String("user_id", user.ID.String()))
	return nil
}

// Login verifies the credentials and returns a token pair. Wrong
// username and wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenPairResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}

	access, refresh, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return &domain.TokenPairResponse{
		Access:  access,
		Refresh: refresh,
		User:    mapper.ToUserDTO(user),
	}, nil
}

// Refresh rotates the token pair from a valid refresh token
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPairResponse, error) {
	userCtx, err := s.tokens.Verify(refreshToken, auth.TokenUseRefresh)
	if err != nil {
		return nil, ErrUnauthorized
	}

	// Re-read the user so revoked accounts and stale claims drop out
	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	access, refresh, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return &domain.TokenPairResponse{
		Access:  access,
		Refresh: refresh,
		User:    mapper.ToUserDTO(user),
	}, nil
}

// GetProfile returns the account with its contacts
func (s *AccountService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByIDWithContacts(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// UpdateProfile updates the mutable profile fields
func (s *AccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *domain.UpdateProfileRequest) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Company = req.Company
	user.Position = req.Position

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}
