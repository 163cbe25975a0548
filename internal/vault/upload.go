package vault

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/docvault/internal/models"
)

// timeNow is a test seam for synthesized titles and creation timestamps.
var timeNow = time.Now

const defaultTitleLayout = "2006-01-02 15:04"

// classify maps the pick source to a document kind and content type. The
// source collaborators restrict what can be picked: the photo library only
// yields images, the file picker only yields PDFs. Anything else is rejected
// before staging.
func classify(source models.UploadSource) (models.DocumentKind, string, error) {
	switch source {
	case models.SourcePhotoLibrary:
		return models.KindImage, "image/jpeg", nil
	case models.SourceFilePicker:
		return models.KindPDF, "application/pdf", nil
	default:
		return "", "", fmt.Errorf("%w: source %q", ErrUnsupportedType, source)
	}
}

// defaultTitle synthesizes a working title: the picked file's base name
// without extension when one is available, otherwise a date-stamped name.
// Display-unique is enough; global uniqueness is not required.
func defaultTitle(fileName string, now time.Time) string {
	if fileName != "" {
		base := filepath.Base(fileName)
		if title := strings.TrimSuffix(base, filepath.Ext(base)); title != "" {
			return title
		}
	}
	return "Document " + now.Format(defaultTitleLayout)
}

// Stage classifies the picked bytes and stores them as the session's single
// pending upload with a synthesized working title. Restaging replaces a
// previous pick; staging is rejected while a commit is in flight.
func (s *Session) Stage(source models.UploadSource, fileName string, data []byte) error {
	kind, contentType, err := classify(source)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureUnlockedLocked(); err != nil {
		return err
	}
	if s.uploading {
		return ErrUploadInProgress
	}

	s.staged = &models.StagedUpload{
		Source:      source,
		Data:        data,
		ContentType: contentType,
		Kind:        kind,
		Title:       defaultTitle(fileName, timeNow()),
	}
	return nil
}

// Staged returns the pending upload, or nil when nothing is staged.
func (s *Session) Staged() *models.StagedUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged
}

// CancelUpload discards the pending upload. A commit already in flight is
// not cancellable and keeps running.
func (s *Session) CancelUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.uploading {
		s.staged = nil
	}
}

// Commit persists the staged upload: blob first, then the metadata record
// referencing it. The two writes are sequential and not transactional.
//
//   - Blob write fails: nothing was persisted, the staged slot is discarded,
//     ErrUploadFailed.
//   - Metadata write fails: the blob is orphaned (logged for an operator
//     sweep, no compensating delete), ErrMetadataFailed, no document shown.
//   - Both succeed: the staged slot is cleared and the list refreshed from
//     the server.
//
// An empty title keeps the staged working title. At most one commit may be
// in flight; a second one is rejected with ErrUploadInProgress, not queued.
func (s *Session) Commit(ctx context.Context, title string) (*models.VaultDocument, error) {
	s.mu.Lock()
	if err := s.ensureUnlockedLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.uploading {
		s.mu.Unlock()
		return nil, ErrUploadInProgress
	}
	if s.staged == nil {
		s.mu.Unlock()
		return nil, ErrNoStagedUpload
	}
	staged := s.staged
	if title == "" {
		title = staged.Title
	}
	s.uploading = true
	s.mu.Unlock()

	ref, encrypted, err := s.blobs.Upload(ctx, staged.Data, staged.ContentType, s.ownerID)
	if err != nil {
		s.settle()
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	doc := &models.VaultDocument{
		OwnerID:      s.ownerID,
		Title:        title,
		CreatedAt:    timeNow().UTC(),
		BlobRef:      ref,
		Kind:         staged.Kind,
		SecurityFlag: encrypted,
	}

	id, err := s.meta.Create(ctx, doc)
	if err != nil {
		s.log.Warn(ctx, "metadata create failed, blob orphaned", "ref", ref, "err", err)
		s.settle()
		return nil, fmt.Errorf("%w: %v", ErrMetadataFailed, err)
	}
	doc.ID = id

	s.settle()
	s.refreshAfterMutation(ctx)

	return doc, nil
}

// settle clears the pending-upload slot after a commit attempt.
func (s *Session) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
	s.uploading = false
}
