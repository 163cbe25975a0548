package vault

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

// Delete removes a document that currently appears in the visible list.
//
// The metadata record goes first: once it is gone the document is invisible
// to the user even if the blob deletion then fails, which is the safer
// failure mode (an orphaned blob is a storage leak, not a visible
// inconsistency). A metadata-delete failure aborts before the blob is
// touched and returns ErrDeleteFailed with the document still visible. The
// blob deletion afterwards is best effort: failures are logged, never
// surfaced, and the list is refreshed regardless.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if err := s.ensureUnlockedLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	var ref string
	found := false
	for _, d := range s.docs {
		if d.ID == id {
			ref = d.BlobRef
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: document %s is not in the visible list", ErrDeleteFailed, id)
	}

	if err := s.meta.Delete(ctx, s.ownerID, id); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	s.cleanupBlob(ctx, ref)
	s.refreshAfterMutation(ctx)

	return nil
}

// cleanupBlob deletes the blob behind ref with a short bounded backoff.
// User-facing operations are never retried; this cleanup is invisible to the
// user, so a couple of attempts against a transient failure are worth it
// before the reference is written off as orphaned.
func (s *Session) cleanupBlob(ctx context.Context, ref string) {
	backoff := retry.WithMaxRetries(2, retry.NewExponential(100*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn(ctx, "blob delete failed, reference orphaned", "ref", ref, "err", err)
	}
}
