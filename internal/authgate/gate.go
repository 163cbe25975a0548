package authgate

import (
	"context"
	"errors"
	"sync"
)

// inflightCall carries the shared outcome of one authentication prompt.
// done is closed once token and err are final.
type inflightCall struct {
	done  chan struct{}
	token string
	err   error
}

// Gate turns the device capability into an unlock decision. It guarantees a
// single prompt per burst of concurrent Authenticate calls, and remembers a
// permanent ErrNotEnrolled outcome so the prompt is never re-issued for a
// capability that cannot succeed.
type Gate struct {
	auth    Authenticator
	tokens  *TokenSource
	ownerID string
	reason  string

	mu          sync.Mutex
	call        *inflightCall
	unavailable bool
}

func NewGate(auth Authenticator, tokens *TokenSource, ownerID string, reason string) *Gate {
	return &Gate{auth: auth, tokens: tokens, ownerID: ownerID, reason: reason}
}

// Authenticate evaluates the device capability and, on success, returns a
// fresh unlock token. Concurrent calls coalesce: only the first issues a
// prompt, the rest wait for and share its outcome.
func (g *Gate) Authenticate(ctx context.Context) (string, error) {
	g.mu.Lock()

	if g.unavailable {
		g.mu.Unlock()
		return "", ErrNotEnrolled
	}

	if g.call != nil {
		call := g.call
		g.mu.Unlock()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	call := &inflightCall{done: make(chan struct{})}
	g.call = call
	g.mu.Unlock()

	call.token, call.err = g.evaluate(ctx)

	g.mu.Lock()
	g.call = nil
	if errors.Is(call.err, ErrNotEnrolled) {
		g.unavailable = true
	}
	g.mu.Unlock()

	close(call.done)

	return call.token, call.err
}

func (g *Gate) evaluate(ctx context.Context) (string, error) {
	if err := g.auth.Evaluate(ctx, g.reason); err != nil {
		return "", err
	}
	return g.tokens.Mint(g.ownerID)
}

// Validate checks an unlock token previously returned by Authenticate.
func (g *Gate) Validate(token string) error {
	owner, err := g.tokens.Validate(token)
	if err != nil {
		return err
	}
	if owner != g.ownerID {
		return ErrInvalidUnlockToken
	}
	return nil
}
