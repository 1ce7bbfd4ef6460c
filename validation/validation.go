// Package validation checks contact fields before they reach a store.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgFullNameRequired = "Full name is required."
	MsgInvalidEmail     = "Invalid email address."
	MsgInvalidPhone     = "Invalid phone number."
)

// mobilePattern matches Indonesian mobile numbers: +62, 62 or 0, an
// operator prefix, then 5 to 11 digits or spaces.
var mobilePattern = regexp.MustCompile(
	`^(\+?62|0)8(1[123456789]|2[1238]|3[1238]|5[12356789]|7[78]|9[56789]|8[123456789])([\s\d]{5,11})$`,
)

// Input holds raw contact fields. Field order is the order messages are reported in.
type Input struct {
	FullName    string `validate:"required"`
	Email       string `validate:"email"`
	PhoneNumber string `validate:"idmobile"`
}

var messages = map[string]string{ //nolint: gochecknoglobals
	"FullName":    MsgFullNameRequired,
	"Email":       MsgInvalidEmail,
	"PhoneNumber": MsgInvalidPhone,
}

var validate = newValidator() //nolint: gochecknoglobals

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("idmobile", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && mobilePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	return v
}

// Errors lists every failed rule of an [Input].
type Errors []string

// Error joins the messages with ", ".
func (e Errors) Error() string { return strings.Join(e, ", ") }

// Trim returns in with surrounding whitespace removed from every field.
func (in Input) Trim() Input {
	return Input{
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.TrimSpace(in.Email),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
	}
}

// Validate checks every rule and returns [Errors] when any of them fails.
func Validate(in Input) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	errs := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg, ok := messages[fe.StructField()]; ok {
			errs = append(errs, msg)
		} else {
			errs = append(errs, fe.Error())
		}
	}
	return errs
}
