package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user. The monthly spending limit starts unset.
func (s *userService) CreateUser(username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username, email, and password are required")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUsername
	}

	if err := s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username:        username,
		Email:           strings.ToLower(email),
		Password:        string(hashedPassword),
		DefaultCurrency: "VND",
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by username
func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// SetMonthlyLimit updates the user's monthly spending limit.
func (s *userService) SetMonthlyLimit(userID uint, limit float64) (*models.User, error) {
	if limit < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be a non-negative number")
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	rounded := round2(limit)
	if err := s.db.Model(user).Update("monthly_limit", rounded).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.MonthlyLimit = &rounded

	return user, nil
}

// SetDefaultCurrency updates the currency used for the user's amounts.
func (s *userService) SetDefaultCurrency(userID uint, currency string) (*models.User, error) {
	currency = strings.ToUpper(currency)

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("default_currency", currency).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.DefaultCurrency = currency

	return user, nil
}
