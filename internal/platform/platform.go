// Package platform holds what the model provider clients share.
package platform

import "errors"

// ErrUnauthorized is wrapped by provider errors when the credential is missing or
// rejected by the provider.
var ErrUnauthorized = errors.New("model credential missing or rejected")
