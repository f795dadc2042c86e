// Package validate holds the client-side form checks run before a request is
// sent.
package validate

import (
	"context"
	"regexp"
	"strings"

	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"go.uber.org/zap"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func Email(email string) bool {
	return emailRe.MatchString(email)
}

// Password only enforces the minimum length; strength is scored remotely.
func Password(password string) bool {
	return len(password) >= 8
}

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// PasswordChecker scores passwords remotely.
type PasswordChecker interface {
	CheckPassword(ctx context.Context, password string) (*api.PasswordStrength, error)
}

// CheckPasswordStrength asks the backend to score password. It returns nil
// for an empty password and on any failure, which is logged.
func CheckPasswordStrength(ctx context.Context, checker PasswordChecker, password string, logger *zap.Logger) *api.PasswordStrength {
	if password == "" {
		return nil
	}
	st, err := checker.CheckPassword(ctx, password)
	if err != nil {
		if logger != nil {
			logger.Warn("error checking password strength", zap.Error(err))
		}
		return nil
	}
	return st
}
