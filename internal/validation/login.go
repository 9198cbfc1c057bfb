package validation

import (
	"errors"
	"strings"
)

// MaxLoginLength is the longest login GitHub accepts.
const MaxLoginLength = 39

var ErrInvalidLogin = errors.New("invalid GitHub login")

// ValidateLogin trims input and checks it against GitHub's login rules:
// alphanumerics and single hyphens, no leading or trailing hyphen.
func ValidateLogin(input string) (string, error) {
	login := strings.TrimSpace(input)
	if login == "" || len(login) > MaxLoginLength {
		return "", ErrInvalidLogin
	}
	if login[0] == '-' || login[len(login)-1] == '-' || strings.Contains(login, "--") {
		return "", ErrInvalidLogin
	}
	for _, r := range login {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return "", ErrInvalidLogin
		}
	}
	return login, nil
}
