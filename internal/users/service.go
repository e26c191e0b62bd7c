package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/auth"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/config"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/enums"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/security"
)

// RegisterInput is the signup form.
type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
}

// ProfileInput is the partial profile mutation; nil fields stay untouched.
type ProfileInput struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	Address    *string
	City       *string
	State      *string
	PostalCode *string
	Bio        *string
	PictureKey *string
}

// AuthResult pairs a user with a freshly minted access token.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Service exposes account operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo        Repository
	tx          txRunner
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService wires the users service. All dependencies are required.
func NewService(repo Repository, tx txRunner, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users: repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("users: tx runner is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("users: logger is required")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		logg:        logg,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		PostalCode:   strings.TrimSpace(input.PostalCode),
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
		Profile:      &models.UserProfile{ID: uuid.New()},
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return s.mint(ctx, user)
}

func (s *service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	at := s.now()
	if err := s.repo.StampLastLogin(ctx, user.ID, at); err != nil {
		// logging in matters more than the stamp
		s.logg.Error(ctx, "stamping last login", err)
	} else {
		user.LastLoginAt = &at
	}

	return s.mint(ctx, user)
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*models.User, error) {
	userUpdates := map[string]any{}
	setString(userUpdates, "first_name", input.FirstName)
	setString(userUpdates, "last_name", input.LastName)
	setString(userUpdates, "phone", input.Phone)
	setString(userUpdates, "address", input.Address)
	setString(userUpdates, "city", input.City)
	setString(userUpdates, "state", input.State)
	setString(userUpdates, "postal_code", input.PostalCode)

	profileUpdates := map[string]any{}
	setString(profileUpdates, "bio", input.Bio)
	setString(profileUpdates, "picture_key", input.PictureKey)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, userID); err != nil {
			return err
		}
		if len(userUpdates) > 0 {
			if err := repo.UpdateUser(ctx, userID, userUpdates); err != nil {
				return err
			}
		}
		if len(profileUpdates) > 0 {
			if err := repo.UpdateProfile(ctx, userID, profileUpdates); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, userID)
}

func (s *service) mint(ctx context.Context, user *models.User) (*AuthResult, error) {
	now := s.now()
	token, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
	}, nil
}

func setString(updates map[string]any, column string, value *string) {
	if value != nil {
		updates[column] = strings.TrimSpace(*value)
	}
}
