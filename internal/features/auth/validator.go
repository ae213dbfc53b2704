package auth

import (
	"strings"

	"github.com/xyz-asif/skycast/internal/pkg/validator"
	apperrors "github.com/xyz-asif/skycast/pkg/errors"
)

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegister normalizes req in place and checks it.
func ValidateRegister(req *RegisterRequest) error {
	req.Email = NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if msg := validator.Struct(req); msg != "" {
		return apperrors.Validation(msg)
	}
	return nil
}

func ValidateLogin(req *LoginRequest) error {
	req.Email = NormalizeEmail(req.Email)

	if msg := validator.Struct(req); msg != "" {
		return apperrors.Validation(msg)
	}
	return nil
}
