package auth

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/blulupo/portfolio/internal/app/models"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func ValidateUsername(username string) error {
	switch {
	case username == "":
		return fmt.Errorf("username is required: %w", models.ErrValidation)
	case len(username) < 3:
		return fmt.Errorf("username must be at least 3 characters: %w", models.ErrValidation)
	case len(username) > 50:
		return fmt.Errorf("username must be at most 50 characters: %w", models.ErrValidation)
	case !usernameRe.MatchString(username):
		return fmt.Errorf("username may only contain letters, digits and underscores: %w", models.ErrValidation)
	}
	return nil
}

func ValidateEmail(email string) error {
	switch {
	case email == "":
		return fmt.Errorf("email is required: %w", models.ErrValidation)
	case len(email) > 100:
		return fmt.Errorf("email must be at most 100 characters: %w", models.ErrValidation)
	case !emailRe.MatchString(email):
		return fmt.Errorf("email format is invalid: %w", models.ErrValidation)
	}
	return nil
}

// ValidatePassword enforces the registration password policy: at least 8
// characters with one uppercase, one lowercase and one digit.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required: %w", models.ErrValidation)
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", models.ErrValidation)
	}
	if len(password) > 128 {
		return fmt.Errorf("password must be at most 128 characters: %w", models.ErrValidation)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain an uppercase letter: %w", models.ErrValidation)
	}
	if !hasLower {
		return fmt.Errorf("password must contain a lowercase letter: %w", models.ErrValidation)
	}
	if !hasDigit {
		return fmt.Errorf("password must contain a digit: %w", models.ErrValidation)
	}
	return nil
}
