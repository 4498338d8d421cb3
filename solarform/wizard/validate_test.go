package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"name@example.com", "Name.Last@Example.COM", "a+b@sub.domain.org", `"quoted name"@example.com`, "user@[192.168.0.1]"}
	invalid := []string{"not-an-email", "", "name@", "@example.com", "name@example", "name@@example.com", "na me@example.com"}

	for _, e := range valid {
		assert.True(t, ValidateEmail(e), "expected %q to be valid", e)
	}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), "expected %q to be invalid", e)
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"(555) 555-5555", "5555555555", "555-555-5555", "555.555.5555", "+1 555-555-5555", "1(555)555-5555", "+15555555555"}
	invalid := []string{"12345", "", "555-5555", "(555 555-5555", "55555555555", "phone", "+2 555-555-5555"}

	for _, p := range valid {
		assert.True(t, ValidatePhone(p), "expected %q to be valid", p)
	}
	for _, p := range invalid {
		assert.False(t, ValidatePhone(p), "expected %q to be invalid", p)
	}
}

func TestValidateZip(t *testing.T) {
	assert.True(t, ValidateZip("84101"))
	assert.False(t, ValidateZip("841"))
	assert.False(t, ValidateZip("abcde"))
	assert.False(t, ValidateZip("84101-1234"))
	assert.False(t, ValidateZip(" 84101"))
	assert.False(t, ValidateZip(""))
}

func TestCheck(t *testing.T) {
	cases := []struct {
		field Field
		value string
		want  string
	}{
		{FieldEmail, "", ""},
		{FieldEmail, "name@example.com", ""},
		{FieldEmail, "nope", "Please enter a valid email address (e.g., name@example.com)"},
		{FieldPhone, "12345", "Please enter a valid US phone number (e.g., (555) 555-5555 or 5555555555)"},
		{FieldPhone, "(555) 555-5555", ""},
		{FieldZip, "841", "Please enter a valid 5-digit US ZIP code"},
		{FieldZip, "84101", ""},
		{FieldName, "anything at all", ""},
		{FieldRoofShade, "Sunny", invalidChoiceMessage},
		{FieldRoofShade, "Unsure", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Check(c.field, c.value), "Check(%s, %q)", c.field, c.value)
	}
}
