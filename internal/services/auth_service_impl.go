package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/greenchainz/greenchainz-api/internal/auth"
	apperrors "github.com/greenchainz/greenchainz-api/internal/errors"
	"github.com/greenchainz/greenchainz-api/internal/models"
	"github.com/greenchainz/greenchainz-api/internal/repository"
	"github.com/greenchainz/greenchainz-api/pkg/config"
)

// authServiceImpl implements AuthService
type authServiceImpl struct {
	repos      *repository.Repositories
	jwtService *auth.JWTService
	cfg        *config.Config
}

// newAuthService creates a new auth service implementation
func newAuthService(repos *repository.Repositories, cfg *config.Config) AuthService {
	return &authServiceImpl{
		repos:      repos,
		jwtService: auth.NewJWTService(cfg.JWTSecret),
		cfg:        cfg,
	}
}

// Login authenticates a user and returns a token pair
func (s *authServiceImpl) Login(email, password string) (*repository.LoginResponse, error) {
	user, err := s.repos.User.GetByEmail(email)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	if !user.IsActive {
		return nil, apperrors.Forbidden("account is disabled", nil)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	return s.issueTokens(user)
}

// Register creates a new user account
func (s *authServiceImpl) Register(req *repository.RegisterRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleBuyer
	}
	if !models.ValidRole(role) {
		return nil, apperrors.ValidationError(fmt.Sprintf("invalid role: %s", role), nil).
			WithOperation("Register")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError("failed to hash password", err)
	}

	user := &models.User{
		ID:             uuid.New(),
		Email:          req.Email,
		PasswordHash:   hashedPassword,
		Name:           req.Name,
		Role:           role,
		OrganizationID: req.OrganizationID,
		IsActive:       true,
	}

	// Existence check and insert run in one transaction so two concurrent
	// registrations for the same email cannot both succeed
	err = s.repos.Tx.WithTransaction(func(repos *repository.Repositories) error {
		if existing, err := repos.User.GetByEmail(req.Email); err == nil && existing != nil {
			return apperrors.Conflict(fmt.Sprintf("user with email %s already exists", req.Email), nil)
		}
		return repos.User.Create(user)
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeConflict) {
			return nil, err
		}
		return nil, apperrors.DatabaseError("failed to create user", err).WithOperation("Register")
	}

	user.PasswordHash = ""
	return user, nil
}

// ValidateToken validates a JWT token and returns the user
func (s *authServiceImpl) ValidateToken(token string) (*models.User, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token", err)
	}

	user, err := s.repos.User.GetByID(claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("user not found", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// RefreshToken generates a new token pair from a refresh token
func (s *authServiceImpl) RefreshToken(refreshToken string) (*repository.LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token", err)
	}

	user, err := s.repos.User.GetByID(claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("user not found", err)
	}

	return s.issueTokens(user)
}

func (s *authServiceImpl) issueTokens(user *models.User) (*repository.LoginResponse, error) {
	claims := auth.Claims{
		UserID:         user.ID,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
	}

	token, expiresAt, err := s.jwtService.GenerateToken(claims)
	if err != nil {
		return nil, apperrors.InternalError("failed to generate token", err)
	}

	refreshToken, _, err := s.jwtService.GenerateRefreshToken(claims)
	if err != nil {
		return nil, apperrors.InternalError("failed to generate refresh token", err)
	}

	user.PasswordHash = ""
	return &repository.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         *user,
		ExpiresAt:    expiresAt,
	}, nil
}
