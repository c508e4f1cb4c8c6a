package validator

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

func ValidEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email format")
	}
	return nil
}

func ValidUsername(username string) error {
	if len(username) < 3 || len(username) > 64 {
		return errors.New("username must be between 3 and 64 characters")
	}
	for _, c := range username {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' || c == '.') {
			return errors.New("username may only contain letters, digits, '_', '-' and '.'")
		}
	}
	return nil
}

func ValidPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// ValidEntityID checks that id is a well-formed entity identifier of
// the form "<prefix>_<uuid>". Malformed identifiers in query filters
// are rejected rather than silently ignored.
func ValidEntityID(id, prefix string) error {
	rest, ok := strings.CutPrefix(id, prefix+"_")
	if !ok {
		return errors.New("malformed identifier")
	}
	if _, err := uuid.Parse(rest); err != nil {
		return errors.New("malformed identifier")
	}
	return nil
}

// ValidNamespaceName restricts namespace names to URL-path-safe
// identifiers so they can serve as the first segment of a short link.
func ValidNamespaceName(name string) error {
	if len(name) < 1 || len(name) > 255 {
		return errors.New("name must be between 1 and 255 characters")
	}
	for _, c := range name {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-') {
			return errors.New("name may only contain letters, digits, '_' and '-'")
		}
	}
	if name == "api" {
		return errors.New("name is reserved")
	}
	return nil
}
