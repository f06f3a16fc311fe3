// services/user/customError.go
package user

import "errors"

// ErrInvalidCredentials is returned when the email/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

// DuplicateEmailError signals that an account already exists for the email.
type DuplicateEmailError struct {
	Email string
}

func (e DuplicateEmailError) Error() string {
	return "an account with email " + e.Email + " already exists"
}
