package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tenderdesk/tender-extract/constants"
	"github.com/tenderdesk/tender-extract/internal/common"
)

// DetectFormat classifies a document by extension first, declared media type
// second. Media types are frequently empty or generic, so a known extension
// always wins; a generic media type with an unknown extension is unsupported.
func DetectFormat(doc SourceDocument) (constants.Format, error) {
	ext := constants.NormalizeExt(filepath.Ext(doc.FileName))
	if f, ok := constants.AllowedExtensions[ext]; ok {
		return f, nil
	}

	mt := strings.ToLower(strings.TrimSpace(doc.MediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if f, ok := constants.MediaTypes[mt]; ok {
		return f, nil
	}

	return "", common.NewAppError("UNSUPPORTED_FORMAT",
		fmt.Sprintf("unsupported format %q (supported: %s)", ext, strings.Join(constants.SupportedExtensions(), ", ")),
		common.ErrUnsupportedFormat)
}
