package vault

import "errors"

// Sentinel errors returned by session operations. Remote-call failures are
// caught at the component boundary and wrapped into one of these; raw
// transport errors never escape. Match with errors.Is.
var (
	// Authentication.
	ErrAuthUnavailable = errors.New("device authentication not configured") // fatal for the session
	ErrAuthDenied      = errors.New("authentication denied")                // cancelled or failed challenge, retryable
	ErrLocked          = errors.New("vault is locked")                      // operation attempted without a valid unlock

	// Fetch.
	ErrFetchFailed = errors.New("fetch failed") // previous list stays untouched

	// Upload pipeline.
	ErrUnsupportedType  = errors.New("unsupported file type") // rejected before staging, no network call
	ErrUploadInProgress = errors.New("upload already in progress")
	ErrNoStagedUpload   = errors.New("no staged upload")
	ErrUploadFailed     = errors.New("blob upload failed")     // nothing persisted
	ErrMetadataFailed   = errors.New("metadata create failed") // blob persisted, record not: orphan risk

	// Deletion.
	ErrDeleteFailed = errors.New("delete failed") // document remains visible, blob untouched
)
