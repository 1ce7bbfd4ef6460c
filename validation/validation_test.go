package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() Input {
	return Input{FullName: "Jane Doe", PhoneNumber: "081234567890", Email: "jane@example.com"}
}

func TestValidateAccepts(t *testing.T) {
	assert.NoError(t, Validate(valid()))

	for _, phone := range []string{
		"081234567890",
		"+6281234567890",
		"6285712345678",
		"0878 1234 567",
		"08951234567",
	} {
		in := valid()
		in.PhoneNumber = phone
		assert.NoError(t, Validate(in), phone)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
		want   Errors
	}{
		{"empty name", func(in *Input) { in.FullName = "" }, Errors{MsgFullNameRequired}},
		{"bad email", func(in *Input) { in.Email = "not-an-email" }, Errors{MsgInvalidEmail}},
		{"empty email", func(in *Input) { in.Email = "" }, Errors{MsgInvalidEmail}},
		{"short phone", func(in *Input) { in.PhoneNumber = "12345" }, Errors{MsgInvalidPhone}},
		{"unknown operator", func(in *Input) { in.PhoneNumber = "081012345678" }, Errors{MsgInvalidPhone}},
		{"too long phone", func(in *Input) { in.PhoneNumber = "0812345678901234" }, Errors{MsgInvalidPhone}},
		{"punctuation in phone", func(in *Input) { in.PhoneNumber = "0812?|?|?" }, Errors{MsgInvalidPhone}},
		{"letters in phone", func(in *Input) { in.PhoneNumber = "0812abcdefg" }, Errors{MsgInvalidPhone}},
		{"all", func(in *Input) { *in = Input{Email: "x", PhoneNumber: "1"} }, Errors{MsgFullNameRequired, MsgInvalidEmail, MsgInvalidPhone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.modify(&in)

			err := Validate(in)
			var errs Errors
			require.True(t, errors.As(err, &errs), "got %v", err)
			assert.Equal(t, tt.want, errs)
		})
	}
}

func TestErrorsJoined(t *testing.T) {
	err := Validate(Input{})
	assert.EqualError(t, err, "Full name is required., Invalid email address., Invalid phone number.")
}

func TestTrim(t *testing.T) {
	in := Input{FullName: "  ", Email: " jane@example.com ", PhoneNumber: "\t081234567890\n"}.Trim()
	assert.Equal(t, Input{Email: "jane@example.com", PhoneNumber: "081234567890"}, in)
	assert.EqualError(t, Validate(in), MsgFullNameRequired)
}
