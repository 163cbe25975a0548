package vault

import "github.com/dmitrijs2005/docvault/internal/models"

// Viewer names the widget class able to display a document.
type Viewer string

const (
	ViewerImage Viewer = "image"
	ViewerPDF   Viewer = "pdf"
)

// ViewerFor selects the viewer for a document: the PDF viewer for PDF
// documents, the image viewer otherwise. Pure mapping, no side effects.
func ViewerFor(doc *models.VaultDocument) Viewer {
	if doc.Kind == models.KindPDF {
		return ViewerPDF
	}
	return ViewerImage
}
