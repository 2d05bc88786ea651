package pipeline

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/route-formatter/internal/domain"
)

// Format identifies the input adapter variant for an upload.
type Format string

const (
	FormatSpreadsheet Format = "xlsx"
	FormatDocument    Format = "pdf"
)

const (
	spreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	documentMIME    = "application/pdf"
)

// Upload is one manifest file as received from a user.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// DetectFormat selects the input variant from the declared content type,
// falling back to the file extension when the type is absent or generic.
func DetectFormat(up Upload) (Format, error) {
	if mt, _, err := mime.ParseMediaType(up.ContentType); err == nil {
		switch mt {
		case spreadsheetMIME:
			return FormatSpreadsheet, nil
		case documentMIME:
			return FormatDocument, nil
		}
	}

	switch strings.ToLower(filepath.Ext(up.Name)) {
	case ".xlsx":
		return FormatSpreadsheet, nil
	case ".pdf":
		return FormatDocument, nil
	}
	return "", fmt.Errorf("%w: %q (%s)", domain.ErrUnsupportedFormat, up.Name, up.ContentType)
}
