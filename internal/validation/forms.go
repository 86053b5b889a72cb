package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/ele/internal/common"
)

// Form field names.
const (
	FieldFirstName       = "name"
	FieldLastName        = "lastName"
	FieldGender          = "gender"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldBirthDate       = "birthDate"
)

// User-facing messages.
const (
	MsgFirstNameRequired = "first name is required"
	MsgLastNameRequired  = "last name is required"
	MsgGenderRequired    = "gender is required"
	MsgEmailRequired     = "email is required"
	MsgEmailInvalid      = "enter a valid email address"
	MsgPasswordRequired  = "password is required"
	MsgPasswordWeak      = "password must be at least 5 characters with one uppercase letter and one number"
	MsgPasswordMismatch  = "passwords do not match"
	MsgBirthDateRequired = "birth date is required"
	MsgUnderage          = "you cannot register while under age"
	MsgFixErrors         = "please fix the errors to continue"
)

// FormErrors maps a field name to its message. A form is valid when the map
// is empty.
type FormErrors map[string]string

func (fe FormErrors) Valid() bool { return len(fe) == 0 }

// Err returns nil for a valid form and an *Error otherwise.
func (fe FormErrors) Err() error {
	if fe.Valid() {
		return nil
	}
	return &Error{Fields: fe}
}

// Error carries the failed fields of a form. It matches common.ErrorValidation.
type Error struct {
	Fields FormErrors
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return common.ErrorValidation }

// Registration is the sign-up form.
type Registration struct {
	FirstName       string
	LastName        string
	Gender          string
	Email           string
	Password        string
	ConfirmPassword string
	BirthDate       time.Time // zero means not provided
}

func (fe FormErrors) required(field, value, msg string) bool {
	if strings.TrimSpace(value) == "" {
		fe[field] = msg
		return false
	}
	return true
}

func (fe FormErrors) email(v string) {
	if fe.required(FieldEmail, v, MsgEmailRequired) && !IsValidEmail(v) {
		fe[FieldEmail] = MsgEmailInvalid
	}
}

func (fe FormErrors) password(v string) {
	if fe.required(FieldPassword, v, MsgPasswordRequired) && !IsValidPassword(v) {
		fe[FieldPassword] = MsgPasswordWeak
	}
}

// ValidateRegistration recomputes the error map for r from scratch.
func ValidateRegistration(r Registration, today time.Time) FormErrors {
	fe := FormErrors{}

	fe.required(FieldFirstName, r.FirstName, MsgFirstNameRequired)
	fe.required(FieldLastName, r.LastName, MsgLastNameRequired)
	fe.required(FieldGender, r.Gender, MsgGenderRequired)
	fe.email(r.Email)
	fe.password(r.Password)

	if r.Password != r.ConfirmPassword {
		fe[FieldConfirmPassword] = MsgPasswordMismatch
	}

	switch {
	case r.BirthDate.IsZero():
		fe[FieldBirthDate] = MsgBirthDateRequired
	case !IsAdult(r.BirthDate, today):
		fe[FieldBirthDate] = MsgUnderage
	}

	return fe
}

// ValidateLogin checks the sign-in form.
func ValidateLogin(email, password string) FormErrors {
	fe := FormErrors{}
	fe.email(email)
	fe.password(password)
	return fe
}

// ValidateEmail checks a lone email field, as used by the password reset form.
func ValidateEmail(email string) FormErrors {
	fe := FormErrors{}
	fe.email(email)
	return fe
}

// ValidatePassword checks a lone new-password field.
func ValidatePassword(password string) FormErrors {
	fe := FormErrors{}
	fe.password(password)
	return fe
}
