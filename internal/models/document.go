// Package models defines the data shapes persisted by the vault and the
// typed intermediate state carried between upload stages.
package models

import "time"

// DocumentKind tags a document with its payload type. The kind is assigned
// once during staging and never changes; it drives viewer selection.
type DocumentKind string

const (
	KindImage DocumentKind = "image"
	KindPDF   DocumentKind = "pdf"
)

// VaultDocument is one persisted record in the metadata store.
//
// A document becomes visible to a session only after both the blob write and
// the metadata write have succeeded; no partially persisted record is ever
// returned by the store.
type VaultDocument struct {
	// ID is assigned by the metadata store on creation; empty before the
	// first persist.
	ID string
	// OwnerID identifies the owning user. Immutable after creation.
	OwnerID string
	// Title is the non-empty display name.
	Title string
	// CreatedAt is assigned at creation. Immutable.
	CreatedAt time.Time
	// BlobRef is the opaque reference into the blob store. Immutable once
	// set; never empty after a successful creation.
	BlobRef string
	// Kind is "image" or "pdf".
	Kind DocumentKind
	// SecurityFlag is true iff the blob store applied its encryption
	// guarantee at upload time.
	SecurityFlag bool
	// Notes is optional free text; part of the record shape, unused by the
	// current flows.
	Notes string
}

// UploadSource says where staged bytes came from. The source alone determines
// the document kind: the photo library only yields images, the file picker
// only yields PDFs.
type UploadSource string

const (
	SourcePhotoLibrary UploadSource = "photo_library"
	SourceFilePicker   UploadSource = "file_picker"
)

// StagedUpload holds a picked file between pick and commit. A session keeps
// at most one; it is cleared on commit or cancel.
type StagedUpload struct {
	Source      UploadSource
	Data        []byte
	ContentType string
	Kind        DocumentKind
	// Title is the working title: the user-supplied value, or a synthesized
	// default when nothing was supplied.
	Title string
}
