package user

import (
	"strings"
	"unicode"
)

const specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

var strengthLevels = []string{"Very Weak", "Weak", "Fair", "Good", "Strong"}

// Strength is the password check result served by /auth/check-password.
type Strength struct {
	Score    int      `json:"score"`
	Strength string   `json:"strength"`
	Feedback []string `json:"feedback"`
	IsStrong bool     `json:"is_strong"`
}

// CheckPasswordStrength scores a password one point per satisfied rule:
// length, upper case, lower case, digit and special character.
func CheckPasswordStrength(password string) Strength {
	score := 0
	feedback := make([]string, 0)

	check := func(ok bool, msg string) {
		if ok {
			score++
			return
		}
		feedback = append(feedback, msg)
	}

	check(len(password) >= 8, "Password should be at least 8 characters long")
	check(strings.IndexFunc(password, unicode.IsUpper) >= 0, "Password should contain at least one uppercase letter")
	check(strings.IndexFunc(password, unicode.IsLower) >= 0, "Password should contain at least one lowercase letter")
	check(strings.IndexFunc(password, unicode.IsDigit) >= 0, "Password should contain at least one number")
	check(strings.ContainsAny(password, specialChars), "Password should contain at least one special character")

	return Strength{
		Score:    score,
		Strength: strengthLevels[min(score, len(strengthLevels)-1)],
		Feedback: feedback,
		IsStrong: score >= 3,
	}
}
