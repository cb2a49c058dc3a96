package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,64}$`)

// FieldError represents a validation error on a single form field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername checks if a username is acceptable. Usernames are
// case-sensitive; no normalisation is applied here.
func ValidateUsername(username string) error {
	if username == "" {
		return FieldError{Field: "username", Message: "username is required"}
	}
	if !usernameRegex.MatchString(username) {
		return FieldError{Field: "username", Message: "username must be 3-64 characters (letters, digits, . _ -)"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return FieldError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return FieldError{Field: "password", Message: "password must be at least 8 characters"}
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return FieldError{Field: "password", Message: "password must be at most 72 characters"}
	}
	return nil
}

// ValidateMemberName checks the only required member field
func ValidateMemberName(name string) error {
	if strings.TrimSpace(name) == "" {
		return FieldError{Field: "name", Message: "name is required"}
	}
	return nil
}

// ParseParentRefs parses a comma-separated parent reference such as "1,2"
// into member ids. Tokens are trimmed; empty tokens and duplicates are
// collapsed. A token that does not parse as a non-negative integer makes
// the whole reference invalid, so malformed input is rejected up front
// instead of silently producing a tree with missing edges.
func ParseParentRefs(ref string) ([]int64, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}

	var ids []int64
	var bad []string
	seen := make(map[int64]bool)

	for _, token := range strings.Split(ref, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil || id < 0 {
			bad = append(bad, token)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(bad) > 0 {
		return nil, FieldError{
			Field:   "parent_ref",
			Message: fmt.Sprintf("invalid parent id(s): %s", strings.Join(bad, ", ")),
		}
	}

	return ids, nil
}
