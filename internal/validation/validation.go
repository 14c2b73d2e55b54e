// Package validation checks customer and address payloads with go-playground/validator.
// Field names in messages are the JSON wire names.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/model"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	pinPattern   = regexp.MustCompile(`^\d{6}$`)
)

// formatMessages maps custom tags to the user-facing reason
var formatMessages = map[string]string{
	"digits10": "Invalid phone number format",
	"digits6":  "Invalid pin code format",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must(v.RegisterValidation("digits10", matches(phonePattern)))
	must(v.RegisterValidation("digits6", matches(pinPattern)))
	return v
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func message(fe validator.FieldError) string {
	if msg, ok := formatMessages[fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is required"
}

// Struct reports the first failing field as an appErrors.ValidationError
func Struct(in any) error {
	fieldErrs, err := check(in)
	if err != nil || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return appErrors.NewValidation(fe.Field(), message(fe))
}

// Fields reports every failing field keyed by its JSON name. Nil means valid.
func Fields(in any) map[string]string {
	fieldErrs, err := check(in)
	if err != nil {
		return map[string]string{"": err.Error()}
	}
	if len(fieldErrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func check(in any) (validator.ValidationErrors, error) {
	err := validate.Struct(in)
	if err == nil {
		return nil, nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs, nil
	}
	return nil, err
}

func NormalizeCustomer(in model.CustomerInput) model.CustomerInput {
	return model.CustomerInput{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
	}
}

func NormalizeAddress(in model.AddressInput) model.AddressInput {
	return model.AddressInput{
		AddressDetails: strings.TrimSpace(in.AddressDetails),
		City:           strings.TrimSpace(in.City),
		State:          strings.TrimSpace(in.State),
		PinCode:        strings.TrimSpace(in.PinCode),
	}
}

// Customer trims and checks a customer payload
func Customer(in model.CustomerInput) (model.CustomerInput, error) {
	in = NormalizeCustomer(in)
	return in, Struct(in)
}

// Address trims and checks an address payload
func Address(in model.AddressInput) (model.AddressInput, error) {
	in = NormalizeAddress(in)
	return in, Struct(in)
}
