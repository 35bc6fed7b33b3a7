// Package preview resolves an uploaded file reference into a display
// strategy: which viewer to use, under what label, and at which URL.
package preview

import (
	"net/url"
	"path"
	"strings"
)

// Mode selects how a file reference is presented.
type Mode int

const (
	// ModeNone means no file has been uploaded at all.
	ModeNone Mode = iota
	// ModePDF renders the file inline through the native PDF viewer.
	ModePDF
	// ModeOffice embeds the file through the Office online viewer.
	ModeOffice
	// ModeImage renders the file as an inline image.
	ModeImage
	// ModeDownload is the fallback for types with no inline viewer.
	ModeDownload
)

const officeViewerBase = "https://view.officeapps.live.com/op/embed.aspx?src="

// Display texts for the two non-viewable states.
const (
	MsgNoFile         = "No CV uploaded yet"
	MsgNotPreviewable = "This type of file cannot be previewed"
)

// Strategy is the resolved presentation for one file reference.
type Strategy struct {
	Mode     Mode
	Label    string
	FileName string
	// FileURL is the absolute URL of the stored file itself.
	FileURL string
	// ViewerURL is the URL to open for viewing. For ModeOffice it wraps
	// FileURL in the external viewer; otherwise it equals FileURL.
	ViewerURL string
}

// Resolve maps a stored file reference to its preview strategy. An empty
// ref yields ModeNone, which is distinct from ModeDownload: nothing was
// uploaded versus something was uploaded but cannot be shown inline.
// The extension check is case-insensitive.
func Resolve(baseURL, ref string) Strategy {
	if ref == "" {
		return Strategy{Mode: ModeNone}
	}

	fileURL := joinURL(baseURL, ref)
	name := path.Base(strings.ReplaceAll(ref, "\\", "/"))
	s := Strategy{
		FileName:  name,
		FileURL:   fileURL,
		ViewerURL: fileURL,
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		s.Mode = ModePDF
		s.Label = "PDF Document"
	case ".doc", ".docx":
		s.Mode = ModeOffice
		s.Label = "Microsoft Word Document"
		s.ViewerURL = officeViewerBase + url.QueryEscape(fileURL)
	case ".png", ".jpg", ".jpeg":
		s.Mode = ModeImage
		s.Label = name
	default:
		s.Mode = ModeDownload
		s.Label = name
	}
	return s
}

// joinURL glues the server base and a stored reference with exactly one
// slash between them. References may already be server-absolute paths.
func joinURL(baseURL, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(ref, "/")
}
