// Package vault implements the core of the document vault: the session lock
// state machine, the upload pipeline, and the deletion coordinator.
//
// A Session is owned by exactly one UI context and lives as long as the vault
// view; nothing survives it locally, the remote stores are the only durable
// state. Internally every operation is serialized against the document list
// with a mutex, but the session is not designed for concurrent use from
// multiple UI contexts.
package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/docvault/internal/authgate"
	"github.com/dmitrijs2005/docvault/internal/blobstore"
	"github.com/dmitrijs2005/docvault/internal/logging"
	"github.com/dmitrijs2005/docvault/internal/metastore"
	"github.com/dmitrijs2005/docvault/internal/models"
)

// LockState is the authentication gate's current phase. All document
// operations are gated on StateUnlocked.
type LockState string

const (
	StateLocked         LockState = "locked"
	StateAuthenticating LockState = "authenticating"
	StateUnlocked       LockState = "unlocked"
	StateDenied         LockState = "denied"
)

// Session owns the lock state machine and the in-memory document list for
// one owner.
type Session struct {
	ownerID string
	gate    *authgate.Gate
	meta    metastore.Repository
	blobs   blobstore.BlobStore
	log     logging.Logger

	mu           sync.Mutex
	state        LockState
	deniedReason string
	unlockToken  string
	docs         []*models.VaultDocument
	staged       *models.StagedUpload
	uploading    bool
}

// NewSession constructs a locked session for ownerID. The session becomes
// functional only after a successful Authenticate.
func NewSession(ownerID string, gate *authgate.Gate, meta metastore.Repository, blobs blobstore.BlobStore, log logging.Logger) *Session {
	return &Session{
		ownerID: ownerID,
		gate:    gate,
		meta:    meta,
		blobs:   blobs,
		log:     log,
		state:   StateLocked,
	}
}

// Authenticate runs the credential gate and, on success, unlocks the session
// and performs the initial fetch.
//
// Calling it while already unlocked is a no-op: no prompt is issued and the
// document list is untouched. A permanently unavailable capability leaves the
// session in StateLocked and returns ErrAuthUnavailable; a cancelled or
// failed challenge moves it to StateDenied with a retryable ErrAuthDenied.
// An initial-fetch failure is logged, not returned: the session is unlocked
// with an empty list and Fetch can be retried.
func (s *Session) Authenticate(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateUnlocked {
		if s.gate.Validate(s.unlockToken) == nil {
			s.mu.Unlock()
			return nil
		}
		// Unlock expired: fall through to a fresh prompt.
		s.relockLocked()
	}
	s.state = StateAuthenticating
	s.mu.Unlock()

	token, err := s.gate.Authenticate(ctx)

	s.mu.Lock()
	if err != nil {
		if errors.Is(err, authgate.ErrNotEnrolled) {
			s.state = StateLocked
			s.mu.Unlock()
			return fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
		}
		s.state = StateDenied
		s.deniedReason = err.Error()
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrAuthDenied, err)
	}
	s.state = StateUnlocked
	s.deniedReason = ""
	s.unlockToken = token
	s.mu.Unlock()

	if err := s.Fetch(ctx); err != nil {
		s.log.Warn(ctx, "initial fetch failed", "err", err)
	}
	return nil
}

// Fetch requests all documents for the owner and replaces the list wholesale.
// On failure the previous list is left untouched and ErrFetchFailed is
// returned (last-good-state, never a partial overwrite).
func (s *Session) Fetch(ctx context.Context) error {
	s.mu.Lock()
	if err := s.ensureUnlockedLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	docs, err := s.meta.List(ctx, s.ownerID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	s.docs = docs
	return nil
}

// refreshAfterMutation re-runs Fetch so the visible list matches server
// state instead of a speculative local edit. A refresh failure keeps the
// previous list and is only logged; the mutation itself already succeeded.
func (s *Session) refreshAfterMutation(ctx context.Context) {
	if err := s.Fetch(ctx); err != nil {
		s.log.Warn(ctx, "refresh after mutation failed", "err", err)
	}
}

// Lock drops the unlock and clears all in-memory state.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relockLocked()
}

// relockLocked resets to StateLocked. Caller holds s.mu.
func (s *Session) relockLocked() {
	s.state = StateLocked
	s.deniedReason = ""
	s.unlockToken = ""
	s.docs = nil
	s.staged = nil
	s.uploading = false
}

// ensureUnlockedLocked verifies the session is unlocked and the unlock token
// is still valid. An expired token re-locks the session. Caller holds s.mu.
func (s *Session) ensureUnlockedLocked() error {
	if s.state != StateUnlocked {
		return fmt.Errorf("%w: state is %s", ErrLocked, s.state)
	}
	if err := s.gate.Validate(s.unlockToken); err != nil {
		s.relockLocked()
		return fmt.Errorf("%w: unlock expired", ErrLocked)
	}
	return nil
}

// State returns the current lock state.
func (s *Session) State() LockState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// DeniedReason returns the human-readable reason of the last denial, or ""
// when the session is not denied.
func (s *Session) DeniedReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deniedReason
}

// Documents returns a copy of the visible document list.
func (s *Session) Documents() []*models.VaultDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.VaultDocument, len(s.docs))
	copy(out, s.docs)
	return out
}
