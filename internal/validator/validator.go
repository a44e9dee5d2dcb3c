package validator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// New creates a new validator instance with the vitalis field validators
// registered.
func New() *validator.Validate {
	valid := validator.New()
	if err := RegisterPasswordValidation(valid); err != nil {
		panic(fmt.Sprintf("validator initialization; error: %s", err))
	}
	if err := RegisterDateValidation(valid); err != nil {
		panic(fmt.Sprintf("validator initialization; error: %s", err))
	}

	return valid
}

// RegisterPasswordValidation registers the "password" field validator with the
// validator instance.
func RegisterPasswordValidation(validator *validator.Validate) error {
	return validator.RegisterValidation("password", password)
}

var (
	passwordRE            = regexp.MustCompile(`^[a-zA-Z\d \!\"\#\$\%\&\'\(\)\*\+\,\-\.\/\:\;\<\=\>\?\@\[\]\^\_\x60\{\|\}\~]{8,64}$`)
	atLeastOneLowerCaseRE = regexp.MustCompile(`[a-z]+`)
	atLeastOneUpperCaseRE = regexp.MustCompile(`[A-Z]+`)
	atLeastOneNumberRE    = regexp.MustCompile(`[\d]+`)
)

// password matches against strings that satisfy the following requirements:
// - between 8 and 64 characters in length
// - at least one lower-case letter
// - at least one upper-case letter
// - at least one number
// - special characters are allowed
func password(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch {
	case !passwordRE.MatchString(val):
		return false
	case !atLeastOneLowerCaseRE.MatchString(val):
		return false
	case !atLeastOneUpperCaseRE.MatchString(val):
		return false
	case !atLeastOneNumberRE.MatchString(val):
		return false
	}
	return true
}

// RegisterDateValidation registers the "date" field validator with the
// validator instance.
func RegisterDateValidation(validator *validator.Validate) error {
	return validator.RegisterValidation("date", date)
}

// DateLayout is the calendar date format used for dates of birth.
const DateLayout = "2006-01-02"

// date matches calendar dates in YYYY-MM-DD form that are not in the future.
func date(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	d, err := time.Parse(DateLayout, val)
	if err != nil {
		return false
	}
	return !d.After(time.Now())
}
