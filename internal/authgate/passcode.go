package authgate

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

// PromptFunc collects a passcode from the user. Implementations must return
// ErrCancelled (possibly wrapped) when the user dismisses the prompt.
type PromptFunc func(ctx context.Context, reason string) ([]byte, error)

// verifierFile is the on-disk enrollment record: a random salt and the
// verifier derived from the enrolled passcode. The passcode itself is never
// stored.
type verifierFile struct {
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

// PasscodeAuthenticator implements the device capability with a locally
// enrolled passcode. A missing verifier file means the device has no
// passcode configured (ErrNotEnrolled).
type PasscodeAuthenticator struct {
	path   string
	prompt PromptFunc
}

func NewPasscodeAuthenticator(path string, prompt PromptFunc) *PasscodeAuthenticator {
	return &PasscodeAuthenticator{path: path, prompt: prompt}
}

func deriveVerifier(passcode []byte, salt []byte) []byte {
	key := argon2.IDKey(passcode, salt, 1, 64*1024, 4, 32)
	hash := sha256.Sum256(key)
	return hash[:]
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Enrolled reports whether a verifier file exists.
func (a *PasscodeAuthenticator) Enrolled() bool {
	_, err := os.Stat(a.path)
	return err == nil
}

// Enroll derives a verifier from the passcode under a fresh salt and writes
// the enrollment record. The passcode slice is wiped before returning.
func (a *PasscodeAuthenticator) Enroll(passcode []byte) error {
	defer wipe(passcode)

	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("salt generation error: %w", err)
	}

	v := verifierFile{Salt: salt, Verifier: deriveVerifier(passcode, salt)}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if err := os.WriteFile(a.path, data, 0o600); err != nil {
		return fmt.Errorf("enrollment write error: %w", err)
	}
	return nil
}

// Evaluate issues one passcode prompt and verifies the answer against the
// enrolled verifier in constant time.
func (a *PasscodeAuthenticator) Evaluate(ctx context.Context, reason string) error {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotEnrolled
		}
		return fmt.Errorf("enrollment read error: %w", err)
	}

	var v verifierFile
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("enrollment decode error: %w", err)
	}

	passcode, err := a.prompt(ctx, reason)
	if err != nil {
		return err
	}
	defer wipe(passcode)

	candidate := deriveVerifier(passcode, v.Salt)
	if subtle.ConstantTimeCompare(v.Verifier, candidate) == 0 {
		return ErrChallengeFailed
	}
	return nil
}
