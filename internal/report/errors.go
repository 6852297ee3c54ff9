package report

import (
	"errors"
	"fmt"
)

// ErrUnknownRegistration is matched by errors.Is for any lookup of a
// registration that is not part of the fleet
var ErrUnknownRegistration = errors.New("unknown aircraft registration")

// UnknownRegistrationError names the registration that failed the lookup
type UnknownRegistrationError struct {
	Registration string
}

func (e *UnknownRegistrationError) Error() string {
	return fmt.Sprintf("AC registration %s invalid", e.Registration)
}

func (e *UnknownRegistrationError) Is(target error) bool {
	return target == ErrUnknownRegistration
}
