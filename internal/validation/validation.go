package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"group-verify-bot/internal/constants"
	apperrors "group-verify-bot/internal/errors"
)

// ValidateFullName checks that a name has at least a first and a last name
// and returns it with whitespace collapsed
func ValidateFullName(name string) (string, error) {
	tokens := strings.Fields(name)
	if len(tokens) < constants.MinFullNameTokens {
		return "", &apperrors.ValidationError{
			Field:   "full_name",
			Message: "full name requires first and last name",
		}
	}

	normalized := strings.Join(tokens, " ")
	if len([]rune(normalized)) > constants.MaxFullNameLength {
		return "", &apperrors.ValidationError{
			Field:   "full_name",
			Message: fmt.Sprintf("full name cannot exceed %d characters", constants.MaxFullNameLength),
		}
	}

	return normalized, nil
}

// NormalizePhone trims the value but otherwise accepts it as given. Phone
// numbers are self-reported and only need to be non-empty.
func NormalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", &apperrors.ValidationError{
			Field:   "phone",
			Message: "phone number is empty",
		}
	}
	return phone, nil
}

// ParseUserID parses the final whitespace-separated token of a command as a user id
func ParseUserID(text string) (int64, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0, &apperrors.CommandError{Input: text, Message: "missing user id"}
	}

	last := tokens[len(tokens)-1]
	if !isNumeric(last) {
		return 0, &apperrors.CommandError{Input: text, Message: "user id must be numeric"}
	}

	id, err := strconv.ParseInt(last, 10, 64)
	if err != nil || id <= 0 {
		return 0, &apperrors.CommandError{Input: text, Message: "user id out of range"}
	}
	return id, nil
}

// isNumeric checks if a string consists of ASCII digits only
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
