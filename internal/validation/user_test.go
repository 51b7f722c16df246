package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "Secure#Pass1", false},
		{"Exactly Min Length", "Abcde1!x", false},
		{"Exactly Max Length", "Ab1!" + strings.Repeat("x", 16), false},
		{"Too Short", "Ab1!xyz", true},
		{"Too Long", "Ab1!" + strings.Repeat("x", 17), true},
		{"No Upper", "secure#pass1", true},
		{"No Lower", "SECURE#PASS1", true},
		{"No Digit", "Secure#Pass!", true},
		{"No Special", "SecurePass12", true},
		{"Disallowed Space", "Secure Pass1!", true},
		{"Disallowed Symbol", "Secure^Pass1", true},
		{"Unicode Rejected", "Ångstrom#Pass1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "pilot_42", false},
		{"Exactly Four", "abcd", false},
		{"Exactly Twenty", strings.Repeat("a", 20), false},
		{"Too Short", "abc", true},
		{"Too Long", strings.Repeat("a", 21), true},
		{"Hyphen", "sky-pilot", true},
		{"At Sign", "user@123", true},
		{"Leading Underscore Allowed", "_pilot", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	emailAt254 := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 185) + ".com"
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "pilot@example.com", false},
		{"Subdomain", "pilot@mail.example.co", false},
		{"Exactly 254 Characters", emailAt254, false},
		{"Too Long", "a" + emailAt254, true},
		{"Invalid Format", "not-an-email", true},
		{"Missing Domain", "user@", true},
		{"Multiple At Symbols", "user@@example.com", true},
		{"Space In Local Part", "user @example.com", true},
		{"Trailing Dot In Domain", "user@example.com.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "pilot@example.com", NormalizeEmail("  Pilot@Example.COM "))
}
