package validation

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	// KIIT institutional address: permissive local part, fixed domain.
	kiitEmailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@kiit\.ac\.in$`)

	// Roll numbers are a two-digit admission year followed by five
	// digits, e.g. 2405099.
	rollNumberRe = regexp.MustCompile(`^[0-9]{2}[0-9]{5}$`)
)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateKIITEmail(email string) bool {
	return kiitEmailRe.MatchString(NormalizeEmail(email))
}

func ValidateRollNumber(roll string) bool {
	return rollNumberRe.MatchString(strings.TrimSpace(roll))
}

func PasswordMinLength() int {
	minStr := os.Getenv("PASSWORD_MIN_LENGTH")
	if minStr == "" {
		return 10
	}
	min, err := strconv.Atoi(minStr)
	if err != nil || min < 8 {
		return 10
	}
	return min
}

func ValidatePassword(password string) bool {
	return len(password) >= PasswordMinLength()
}

func MaxMessageLength() int {
	maxStr := os.Getenv("MAX_MESSAGE_LENGTH")
	if maxStr == "" {
		return 4000
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 1 {
		return 4000
	}
	return max
}

// ValidateMessageContent rejects empty/whitespace-only content and
// content beyond the configured maximum.
func ValidateMessageContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	return len(content) <= MaxMessageLength()
}

// MaxGroupParticipants caps the max_participants a group may configure.
func MaxGroupParticipants() int {
	maxStr := os.Getenv("MAX_GROUP_PARTICIPANTS")
	if maxStr == "" {
		return 50
	}
	max, err := strconv.Atoi(maxStr)
	if err != nil || max < 2 {
		return 50
	}
	return max
}
