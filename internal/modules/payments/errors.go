package payments

import "errors"

var (
	ErrValidation         = errors.New("missing or invalid payment fields")
	ErrVerificationFailed = errors.New("payment signature verification failed")
	ErrProvider           = errors.New("payment provider request failed")
)
