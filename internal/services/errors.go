package services

import "errors"

var (
	// Auth
	ErrDuplicateEmail        = errors.New("user already exists with this email")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountDeactivated    = errors.New("account is deactivated")
	ErrEmailNotVerified      = errors.New("email not verified")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired verification token")
	ErrUserNotFound          = errors.New("user not found")
	ErrAlreadyVerified       = errors.New("email is already verified")
	ErrVerificationDispatch  = errors.New("could not send verification email")

	// Customers
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrCustomerEmailTaken = errors.New("customer with this email already exists")
	ErrCustomerHasLeads   = errors.New("cannot delete customer with existing leads")

	// Leads
	ErrLeadNotFound = errors.New("lead not found")
	ErrNotLeadOwner = errors.New("not authorized to delete this lead")
)

// ValidationError marks malformed input; handlers map it to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
