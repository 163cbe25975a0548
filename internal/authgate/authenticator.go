// Package authgate wraps the device-authentication capability behind a gate
// that produces a binary unlock decision and an unlock token. The gate never
// stacks prompts: concurrent callers share a single in-flight evaluation.
package authgate

import (
	"context"
	"errors"
)

var (
	// ErrNotEnrolled means no device authentication is configured at all.
	// The condition is permanent for the lifetime of a gate; the user has
	// to change device settings and start over.
	ErrNotEnrolled = errors.New("device authentication not enrolled")

	// ErrCancelled means the user dismissed the authentication prompt.
	ErrCancelled = errors.New("authentication cancelled by user")

	// ErrChallengeFailed means the user answered the prompt and failed it.
	ErrChallengeFailed = errors.New("authentication challenge failed")
)

// Authenticator is the device capability: it issues exactly one prompt per
// Evaluate call and reports the outcome. The reason string is shown to the
// user in the prompt.
type Authenticator interface {
	Evaluate(ctx context.Context, reason string) error
}
