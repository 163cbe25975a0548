package vault

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/docvault/internal/models"
)

func TestDelete_Success(t *testing.T) {
	meta := newFakeMeta()
	blobs := newFakeBlob()
	blobs.uploads["blob-a"] = []byte("x")
	doc := meta.put(&models.VaultDocument{OwnerID: testOwner, Title: "a", Kind: models.KindPDF, BlobRef: "blob-a"})
	s := unlockedSession(t, meta, blobs)

	require.NoError(t, s.Delete(context.Background(), doc.ID))

	assert.Empty(t, s.Documents())
	assert.Empty(t, blobs.uploads, "blob removed as well")
}

func TestDelete_MetadataFailureAbortsBeforeBlob(t *testing.T) {
	meta := newFakeMeta()
	blobs := newFakeBlob()
	doc := meta.put(&models.VaultDocument{OwnerID: testOwner, Title: "a", Kind: models.KindPDF, BlobRef: "blob-a"})
	s := unlockedSession(t, meta, blobs)

	meta.deleteErr = errors.New("timeout")
	err := s.Delete(context.Background(), doc.ID)
	require.ErrorIs(t, err, ErrDeleteFailed)

	assert.Len(t, s.Documents(), 1, "document remains visible")
	assert.Zero(t, atomic.LoadInt32(&blobs.deleteCalls), "blob untouched")
}

func TestDelete_BlobFailureNotSurfaced(t *testing.T) {
	meta := newFakeMeta()
	blobs := newFakeBlob()
	blobs.deleteErr = errors.New("service unavailable")
	doc := meta.put(&models.VaultDocument{OwnerID: testOwner, Title: "a", Kind: models.KindImage, BlobRef: "blob-a"})
	s := unlockedSession(t, meta, blobs)

	require.NoError(t, s.Delete(context.Background(), doc.ID), "blob-delete outcome must not surface")

	for _, d := range s.Documents() {
		assert.NotEqual(t, doc.ID, d.ID, "deleted document absent after refresh")
	}
	// Initial attempt plus two bounded retries of the best-effort cleanup.
	assert.Equal(t, int32(3), atomic.LoadInt32(&blobs.deleteCalls))
}

func TestDelete_NotInVisibleList(t *testing.T) {
	meta := newFakeMeta()
	blobs := newFakeBlob()
	s := unlockedSession(t, meta, blobs)

	err := s.Delete(context.Background(), "doc-unknown")
	require.ErrorIs(t, err, ErrDeleteFailed)
	assert.Zero(t, atomic.LoadInt32(&blobs.deleteCalls))
}

func TestDelete_WhileLocked(t *testing.T) {
	s := newTestSession(&fakeAuth{}, newFakeMeta(), newFakeBlob())
	require.ErrorIs(t, s.Delete(context.Background(), "doc-1"), ErrLocked)
}
