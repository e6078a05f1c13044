// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/farmmarket-backend/internal/config"
	"github.com/your-org/farmmarket-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken is returned when registering with an email that already exists
	ErrEmailTaken = errors.New("email already in use")
	// ErrNotFound is returned when a user does not exist
	ErrNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when login fails
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Address   string `json:"address"`
	ZipCode   string `json:"zipCode"`
	City      string `json:"city"`
	Phone     string `json:"phoneNumber"`
	Farmer    bool   `json:"farmer"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenPair holds an access token and its refresh token
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates a new user account
func (s *Service) Register(req *RegisterRequest) (*User, error) {
	var existing User
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := User{
		UUID:      uuid.New().String(),
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		ZipCode:   req.ZipCode,
		City:      req.City,
		Phone:     req.Phone,
		IsFarmer:  req.Farmer,
		IsActive:  true,
	}

	if err := s.db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &u, nil
}

// Login verifies credentials and issues a token pair
func (s *Service) Login(req *LoginRequest) (*User, *TokenPair, error) {
	var u User
	err := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(&u)
	if err != nil {
		return nil, nil, err
	}

	return &u, tokens, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *Service) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	u, err := s.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(u)
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(id uint) (*User, error) {
	var u User
	err := s.db.First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

// BecomeFarmer grants the farmer role to an existing user
func (s *Service) BecomeFarmer(userID uint) (*User, error) {
	u, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if u.IsFarmer {
		return u, nil
	}

	if err := s.db.Model(u).Update("is_farmer", true).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	u.IsFarmer = true

	return u, nil
}

func (s *Service) issueTokens(u *User) (*TokenPair, error) {
	access, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
