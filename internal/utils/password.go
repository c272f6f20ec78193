package utils

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
)

// PasswordPolicy describes the minimum strength required of a new password.
type PasswordPolicy struct {
	MinLength    int
	RequireUpper bool
	RequireLower bool
	RequireDigit bool
}

// Check returns ErrWeakPassword listing every rule the password fails.
// Length is counted in characters, not bytes.
func (p PasswordPolicy) Check(password []byte) error {
	if !utf8.Valid(password) {
		return fmt.Errorf("%w: password must be valid UTF-8", kerrors.ErrInvalidInput)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range string(password) {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	var problems []string
	if p.MinLength > 0 && utf8.RuneCount(password) < p.MinLength {
		problems = append(problems, fmt.Sprintf("at least %d characters", p.MinLength))
	}
	if p.RequireUpper && !hasUpper {
		problems = append(problems, "an upper-case letter")
	}
	if p.RequireLower && !hasLower {
		problems = append(problems, "a lower-case letter")
	}
	if p.RequireDigit && !hasDigit {
		problems = append(problems, "a digit")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: password needs %s", kerrors.ErrWeakPassword, strings.Join(problems, ", "))
	}
	return nil
}
