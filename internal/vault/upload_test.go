package vault

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/docvault/internal/models"
)

func withFixedTime(t *testing.T, fixed time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = orig })
}

func unlockedSession(t *testing.T, meta *fakeMeta, blobs *fakeBlob) *Session {
	t.Helper()
	s := newTestSession(&fakeAuth{}, meta, blobs)
	require.NoError(t, s.Authenticate(context.Background()))
	return s
}

func TestUpload_PhotoWithEmptyTitle(t *testing.T) {
	fixed := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	withFixedTime(t, fixed)

	meta := newFakeMeta()
	blobs := newFakeBlob()
	s := unlockedSession(t, meta, blobs)

	data := make([]byte, 2<<20) // a 2MB JPEG
	require.NoError(t, s.Stage(models.SourcePhotoLibrary, "", data))

	doc, err := s.Commit(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, models.KindImage, doc.Kind)
	assert.Contains(t, doc.Title, "2026-09-01", "synthesized title carries the current date")

	docs := s.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)
	assert.Equal(t, models.KindImage, docs[0].Kind)
}

func TestUpload_PDFDefaultTitleStripsExtension(t *testing.T) {
	meta := newFakeMeta()
	blobs := newFakeBlob()
	s := unlockedSession(t, meta, blobs)

	require.NoError(t, s.Stage(models.SourceFilePicker, "contract.pdf", []byte("%PDF-1.4")))
	require.Equal(t, "contract", s.Staged().Title)

	doc, err := s.Commit(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "contract", doc.Title)
	assert.Equal(t, models.KindPDF, doc.Kind)
	assert.NotEmpty(t, doc.BlobRef)

	docs := s.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "contract", docs[0].Title)
	assert.Equal(t, doc.BlobRef, docs[0].BlobRef)
}

func TestUpload_ExplicitTitleWins(t *testing.T) {
	s := unlockedSession(t, newFakeMeta(), newFakeBlob())

	require.NoError(t, s.Stage(models.SourceFilePicker, "contract.pdf", []byte("x")))
	doc, err := s.Commit(context.Background(), "Lease agreement")
	require.NoError(t, err)
	assert.Equal(t, "Lease agreement", doc.Title)
}

func TestStage_UnsupportedSource(t *testing.T) {
	blobs := newFakeBlob()
	s := unlockedSession(t, newFakeMeta(), blobs)

	err := s.Stage(models.UploadSource("cloud_drive"), "x.doc", []byte("x"))
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Nil(t, s.Staged())
	assert.Zero(t, atomic.LoadInt32(&blobs.uploadCalls), "rejected before any network call")
}

func TestStage_WhileLocked(t *testing.T) {
	s := newTestSession(&fakeAuth{}, newFakeMeta(), newFakeBlob())
	require.ErrorIs(t, s.Stage(models.SourceFilePicker, "a.pdf", []byte("x")), ErrLocked)
}

func TestCommit_BlobFailure(t *testing.T) {
	meta := newFakeMeta()
	blobs := newFakeBlob()
	blobs.uploadErr = errors.New("connection reset")
	s := unlockedSession(t, meta, blobs)

	require.NoError(t, s.Stage(models.SourcePhotoLibrary, "", []byte("x")))
	_, err := s.Commit(context.Background(), "")
	require.ErrorIs(t, err, ErrUploadFailed)

	assert.Zero(t, atomic.LoadInt32(&meta.createCalls), "no metadata record may be created")
	assert.Empty(t, s.Documents())
	assert.Nil(t, s.Staged(), "local state discarded")
}

func TestCommit_MetadataFailureLeavesOrphan(t *testing.T) {
	meta := newFakeMeta()
	meta.createErr = errors.New("constraint violation")
	blobs := newFakeBlob()
	s := unlockedSession(t, meta, blobs)

	require.NoError(t, s.Stage(models.SourceFilePicker, "a.pdf", []byte("x")))
	_, err := s.Commit(context.Background(), "")
	require.ErrorIs(t, err, ErrMetadataFailed)

	assert.Empty(t, s.Documents(), "caller is not shown a document")
	assert.Len(t, blobs.uploads, 1, "blob stays behind as a known orphan")
	assert.Nil(t, s.Staged())
}

func TestCommit_SecurityFlagFromBlobStore(t *testing.T) {
	blobs := newFakeBlob()
	blobs.encrypted = false
	s := unlockedSession(t, newFakeMeta(), blobs)

	require.NoError(t, s.Stage(models.SourceFilePicker, "a.pdf", []byte("x")))
	doc, err := s.Commit(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, doc.SecurityFlag)
}

func TestCommit_NothingStaged(t *testing.T) {
	s := unlockedSession(t, newFakeMeta(), newFakeBlob())
	_, err := s.Commit(context.Background(), "")
	require.ErrorIs(t, err, ErrNoStagedUpload)
}

func TestCommit_SecondCommitRejectedWhileInFlight(t *testing.T) {
	meta := newFakeMeta()
	blobs := newFakeBlob()
	blobs.block = make(chan struct{})
	s := unlockedSession(t, meta, blobs)

	require.NoError(t, s.Stage(models.SourceFilePicker, "a.pdf", []byte("x")))

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.Commit(context.Background(), "")
		firstDone <- err
	}()

	// Wait until the first commit is inside the blob upload.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&blobs.uploadCalls) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := s.Commit(context.Background(), "")
	require.ErrorIs(t, err, ErrUploadInProgress)

	close(blobs.block)
	require.NoError(t, <-firstDone, "in-flight upload unaffected by the rejected one")
	assert.Len(t, s.Documents(), 1)
}

func TestCancelUpload_ClearsStagedSlot(t *testing.T) {
	s := unlockedSession(t, newFakeMeta(), newFakeBlob())
	require.NoError(t, s.Stage(models.SourceFilePicker, "a.pdf", []byte("x")))
	require.NotNil(t, s.Staged())

	s.CancelUpload()
	assert.Nil(t, s.Staged())
}

func TestDefaultTitle(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 5, 0, 0, time.UTC)

	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"pdf name", "contract.pdf", "contract"},
		{"nested path", "/tmp/scans/invoice.pdf", "invoice"},
		{"no extension", "readme", "readme"},
		{"empty", "", "Document 2026-09-01 09:05"},
		{"only extension", ".pdf", "Document 2026-09-01 09:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultTitle(tt.fileName, now))
		})
	}
}
