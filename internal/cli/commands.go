package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/docvault/internal/models"
	"github.com/dmitrijs2005/docvault/internal/vault"
)

// Unlock authenticates the owner and fetches the document list.
func (a *App) Unlock(ctx context.Context) error {
	err := a.session.Authenticate(ctx)
	if err != nil {
		switch {
		case errors.Is(err, vault.ErrAuthUnavailable):
			printlnFn("No passcode is enrolled on this device. Run 'enroll' first.")
		case errors.Is(err, vault.ErrAuthDenied):
			printlnFn("Access denied:", a.session.DeniedReason())
		default:
			printlnFn("Unlock failed:", err.Error())
		}
		return err
	}
	printlnFn("Vault unlocked.")
	return nil
}

// Enroll sets up the device passcode used by the credential gate.
func (a *App) Enroll(ctx context.Context) error {
	if a.passcode.Enrolled() {
		printlnFn("A passcode is already enrolled.")
		return nil
	}

	first, err := GetPasscode("Choose a passcode", os.Stdout)
	if err != nil {
		return err
	}
	second, err := GetPasscode("Repeat the passcode", os.Stdout)
	if err != nil {
		return err
	}
	if !bytes.Equal(first, second) {
		printlnFn("Passcodes do not match.")
		return errors.New("passcodes do not match")
	}

	if err := a.passcode.Enroll(first); err != nil {
		printlnFn("Enrollment failed:", err.Error())
		return err
	}
	printlnFn("Passcode enrolled. Run 'unlock' to open the vault.")
	return nil
}

// List prints the visible documents after a fresh fetch.
func (a *App) List(ctx context.Context) error {
	if err := a.session.Fetch(ctx); err != nil {
		printlnFn("Fetch failed, showing last known list:", err.Error())
	}

	docs := a.session.Documents()
	if len(docs) == 0 {
		printlnFn("The vault is empty.")
		return nil
	}
	for _, d := range docs {
		flag := " "
		if d.SecurityFlag {
			flag = "*"
		}
		printlnFn(fmt.Sprintf("%s %s  [%-5s] %s  (%s)", flag, d.ID, d.Kind, d.Title, d.CreatedAt.Format("2006-01-02")))
	}
	return nil
}

// AddFile stages a PDF picked from the file system and commits it.
func (a *App) AddFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Cannot read file:", err.Error())
		return err
	}
	return a.commitStaged(ctx, models.SourceFilePicker, filepath.Base(path), data)
}

// AddPhoto stages an image picked from the photo library and commits it.
// Photos carry no file name; the title defaults to a date-stamped one.
func (a *App) AddPhoto(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Cannot read file:", err.Error())
		return err
	}
	return a.commitStaged(ctx, models.SourcePhotoLibrary, "", data)
}

func (a *App) commitStaged(ctx context.Context, source models.UploadSource, fileName string, data []byte) error {
	if err := a.session.Stage(source, fileName, data); err != nil {
		printlnFn("Cannot stage upload:", err.Error())
		return err
	}

	staged := a.session.Staged()
	title, err := GetSimpleText(a.reader, fmt.Sprintf("Title (empty for %q)", staged.Title), os.Stdout)
	if err != nil {
		a.session.CancelUpload()
		return err
	}

	doc, err := a.session.Commit(ctx, title)
	if err != nil {
		printlnFn("Upload failed:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Stored %q as %s.", doc.Title, doc.ID))
	return nil
}

// Delete removes a document from the vault.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.session.Delete(ctx, id); err != nil {
		printlnFn("Delete failed:", err.Error())
		return err
	}
	printlnFn("Document deleted.")
	return nil
}

// Open reports which viewer would display the document.
func (a *App) Open(ctx context.Context, id string) error {
	for _, d := range a.session.Documents() {
		if d.ID == id {
			printlnFn(fmt.Sprintf("Opening %q with the %s viewer (blob %s).", d.Title, vault.ViewerFor(d), d.BlobRef))
			return nil
		}
	}
	printlnFn("No such document:", id)
	return fmt.Errorf("no such document: %s", id)
}

// Lock re-locks the vault and drops all in-memory state.
func (a *App) Lock(ctx context.Context) error {
	a.session.Lock()
	printlnFn("Vault locked.")
	return nil
}
