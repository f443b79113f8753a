package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Format Checkers
// ==========================

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		ext   string
		want  bool
	}{
		{"plain digits", "2125551234", "", true},
		{"punctuated", "(212) 555-1234", "", true},
		{"country code", "+1 212.555.1234", "", true},
		{"with extension", "212-555-1234", "123", true},
		{"extension not numeric", "212-555-1234", "ab", false},
		{"extension too long", "212-555-1234", "1234567", false},
		{"too short", "555-1234", "", false},
		{"area code starts with 1", "112-555-1234", "", false},
		{"exchange starts with 0", "212-055-1234", "", false},
		{"letters", "212-ABC-1234", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhone(tt.phone, tt.ext))
		})
	}
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(212) 555-1234", FormatPhone("212.555.1234", ""))
	assert.Equal(t, "(212) 555-1234 x42", FormatPhone("1 (212) 555 1234", " 42 "))
	assert.Equal(t, "not a phone", FormatPhone("  not a phone ", ""))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("jane.doe@example.org"))
	assert.True(t, ValidateEmail("  jane+lottery@example.co.uk "))
	assert.False(t, ValidateEmail("jane@example"))
	assert.False(t, ValidateEmail("jane.example.org"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"simple", "Maria", true},
		{"hyphen and apostrophe", "Anne-Marie O'Neil", true},
		{"period", "St. John", true},
		{"accented", "José", true},
		{"digits", "R2D2", false},
		{"leading hyphen", "-Ann", false},
		{"blank", "   ", false},
		{"too long", "Abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijk", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateName(tt.in))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("lottery#2024"))
	assert.False(t, ValidatePassword("short1!"))
	assert.False(t, ValidatePassword("nodigits!!"))
	assert.False(t, ValidatePassword("nosymbol123"))
	assert.False(t, ValidatePassword("12345678!"))
	assert.False(t, ValidatePassword("has space 1!"))
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("jdoe"))
	assert.True(t, ValidateUsername("jane.doe@example.org"))
	assert.False(t, ValidateUsername("abc"))
	assert.False(t, ValidateUsername("jane doe"))
}

func TestCleanAll(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, CleanAll([]string{" A ", "", "  ", "B"}))
	assert.Empty(t, CleanAll(nil))
	assert.True(t, Blank(" \t "))
}

// ==========================
// Job Variable Schemas
// ==========================

const testSchema = `{
  "type": "object",
  "required": ["username", "applicationId"],
  "properties": {
    "username": {"type": "string", "minLength": 1},
    "applicationId": {"type": "integer", "minimum": 1}
  }
}`

func TestSchema_Validate(t *testing.T) {
	s, err := Compile(testSchema)
	require.NoError(t, err)

	ok := s.Validate(`{"username":"jdoe","applicationId":7}`)
	assert.True(t, ok.Valid)
	assert.NoError(t, ok.Error())

	bad := s.Validate(`{"username":"","applicationId":0}`)
	assert.False(t, bad.Valid)
	assert.True(t, bad.HasErrors("username"))
	assert.True(t, bad.HasErrors("applicationId"))
	assert.Error(t, bad.Error())

	missing := s.Validate(`{"username":"jdoe"}`)
	assert.False(t, missing.Valid)
	assert.NotEmpty(t, missing.GetErrorMessages())

	garbage := s.Validate(`{not json`)
	assert.False(t, garbage.Valid)
	assert.Equal(t, "INVALID_JSON", garbage.Errors[0].Code)
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
}
