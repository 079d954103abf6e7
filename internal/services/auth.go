package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/store"
)

// ErrInvalidCredentials is returned by Login for a bad username/password
// pair or a suspended account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles registration, login and account administration.
type AuthService struct {
	store    store.Store
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.SugaredLogger
}

// NewAuthService creates a new auth service.
func NewAuthService(st store.Store, secret string, tokenTTL time.Duration, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{store: st, secret: []byte(secret), tokenTTL: tokenTTL, logger: logger}
}

// Register creates a citizen or volunteer account. Authority accounts are
// provisioned out of band and cannot be self-registered. Registering a
// volunteer also creates their profile, marked available.
func (s *AuthService) Register(ctx context.Context, req *models.Registration) (*models.User, error) {
	if req.Role != models.RoleCitizen && req.Role != models.RoleVolunteer {
		return nil, fmt.Errorf("%w: role must be citizen or volunteer", ErrValidation)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("%w: username %q is taken", ErrValidation, req.Username)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Phone:        req.Phone,
		Address:      req.Address,
		IsActive:     true,
		DateJoined:   time.Now(),
	}

	err = s.store.Tx(ctx, func(tx store.Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if user.Role == models.RoleVolunteer {
			profile := &models.VolunteerProfile{
				UserID:       user.ID,
				Availability: models.Available,
			}
			if err := tx.CreateVolunteerProfile(ctx, profile); err != nil {
				if errors.Is(err, store.ErrProfileRole) {
					return fmt.Errorf("%w: only volunteers can have a profile", ErrValidation)
				}
				return fmt.Errorf("create volunteer profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("User registered", "id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// Login checks credentials and returns a signed bearer token carrying the
// user's ID and role.
func (s *AuthService) Login(ctx context.Context, creds *models.Credentials) (string, *models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Infow("User logged in", "id", user.ID, "role", user.Role)
	return signed, user, nil
}

// ToggleUserActive flips a user's active flag (account suspension).
// Authority only; authorities cannot suspend themselves.
func (s *AuthService) ToggleUserActive(ctx context.Context, actor models.Actor, userID uuid.UUID) (*models.User, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}
	if actor.ID == userID {
		return nil, fmt.Errorf("%w: cannot suspend own account", ErrValidation)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.IsActive = !user.IsActive
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Infow("User active flag toggled", "id", user.ID, "is_active", user.IsActive, "by", actor.ID)
	return user, nil
}
