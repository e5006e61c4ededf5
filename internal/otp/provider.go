package otp

import "context"

// Gateway delivers an OTP message to a phone number and returns the
// provider's message id. Delivery mechanics are the gateway's problem.
type Gateway interface {
	Send(ctx context.Context, phoneE164, message string) (providerMessageID string, err error)
}
