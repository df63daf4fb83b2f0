package services

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"

	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
	ErrWeakPassword           = errors.New("weak password")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidLogin           = errors.New("invalid email or password")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < 8 {
		return ErrWeakPassword
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasUpper && hasLower && hasDigit {
		return nil
	}
	return ErrWeakPassword
}

func (service *AuthService) Register(emailRaw string, passwordRaw string, displayName string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Authenticate folds every failure into ErrInvalidLogin so callers cannot
// probe which emails exist.
func (service *AuthService) Authenticate(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, ErrInvalidLogin
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		return models.User{}, ErrInvalidLogin
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidLogin
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}
