package domain

import (
	"fmt"
	"strings"
)

type User struct {
	ID    string
	Name  string
	Email string
}

// Identity is the signal handed to the presentation layer. The core never
// authenticates anyone; it only chooses which affordances to expose.
type Identity struct {
	User *User
}

// Authenticated reports whether a usable user is signed in. A user whose id
// fails ValidateUserID is treated as a guest.
func (i Identity) Authenticated() bool {
	return i.User != nil && ValidateUserID(i.User.ID) == nil
}

// ValidateUserID rejects ids that cannot be embedded in a snapshot key.
func ValidateUserID(id string) error {
	trimmed := strings.TrimSpace(id)
	switch {
	case trimmed == "":
		return fmt.Errorf("%w: id is empty", ErrInvalidUserID)
	case trimmed != id:
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidUserID, id)
	case strings.ContainsAny(id, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidUserID, id)
	case strings.Contains(id, ".."):
		return fmt.Errorf("%w: %q contains %q", ErrInvalidUserID, id, "..")
	}
	return nil
}

type Affordance string

const (
	AffordanceAuthenticated Affordance = "authenticated"
	AffordanceGuest         Affordance = "guest"
)

func (i Identity) Affordance() Affordance {
	if i.Authenticated() {
		return AffordanceAuthenticated
	}
	return AffordanceGuest
}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func ParseTheme(raw string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	default:
		return "", fmt.Errorf("unsupported theme %q", raw)
	}
}
