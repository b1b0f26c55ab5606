package validation

import (
	"os"
	"strings"
	"testing"
)

func TestValidateKIITEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"valid student email", "2405099@kiit.ac.in", true},
		{"valid named email", "rahul.kumar@kiit.ac.in", true},
		{"uppercase domain", "rahul@KIIT.AC.IN", true},
		{"leading whitespace", "  rahul@kiit.ac.in", true},
		{"wrong domain", "rahul@gmail.com", false},
		{"lookalike domain", "rahul@kiitxac.in", false},
		{"subdomain", "rahul@mail.kiit.ac.in", false},
		{"empty", "", false},
		{"missing local part", "@kiit.ac.in", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateKIITEmail(tt.email); got != tt.want {
				t.Errorf("ValidateKIITEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidateRollNumber(t *testing.T) {
	tests := []struct {
		name string
		roll string
		want bool
	}{
		{"valid", "2405099", true},
		{"valid other year", "2305912", true},
		{"padded", " 2415122 ", true},
		{"too short", "240509", false},
		{"too long", "24050991", false},
		{"letters", "24A5099", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateRollNumber(tt.roll); got != tt.want {
				t.Errorf("ValidateRollNumber(%q) = %v, want %v", tt.roll, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Rahul@KIIT.ac.IN "); got != "rahul@kiit.ac.in" {
		t.Errorf("NormalizeEmail = %q, want rahul@kiit.ac.in", got)
	}
}

func TestValidateMessageContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"plain text", "hello group", true},
		{"empty", "", false},
		{"whitespace only", "   \n\t", false},
		{"at limit", strings.Repeat("a", 4000), true},
		{"over limit", strings.Repeat("a", 4001), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateMessageContent(tt.content); got != tt.want {
				t.Errorf("ValidateMessageContent(len=%d) = %v, want %v", len(tt.content), got, tt.want)
			}
		})
	}
}

func TestPasswordMinLength(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"default", "", 10},
		{"custom", "12", 12},
		{"below floor", "4", 10},
		{"garbage", "abc", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env == "" {
				os.Unsetenv("PASSWORD_MIN_LENGTH")
			} else {
				os.Setenv("PASSWORD_MIN_LENGTH", tt.env)
			}
			defer os.Unsetenv("PASSWORD_MIN_LENGTH")

			if got := PasswordMinLength(); got != tt.want {
				t.Errorf("PasswordMinLength() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaxGroupParticipants(t *testing.T) {
	os.Unsetenv("MAX_GROUP_PARTICIPANTS")
	if got := MaxGroupParticipants(); got != 50 {
		t.Errorf("MaxGroupParticipants() default = %d, want 50", got)
	}

	os.Setenv("MAX_GROUP_PARTICIPANTS", "20")
	defer os.Unsetenv("MAX_GROUP_PARTICIPANTS")
	if got := MaxGroupParticipants(); got != 20 {
		t.Errorf("MaxGroupParticipants() = %d, want 20", got)
	}
}
