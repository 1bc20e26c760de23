package constants

import "strings"

// Format is the detected document kind driving strategy selection.
type Format string

const (
	DOCX  Format = "DOCX"  // modern word-processor (zip + xml)
	DOC   Format = "DOC"   // legacy word-processor (OLE binary)
	PDF   Format = "PDF"   // pdf with or without a text layer
	TEXT  Format = "TEXT"  // plain text, rtf, markup text
	TABLE Format = "TABLE" // tabular text (csv, xlsx)
	JSON  Format = "JSON"  // structured text
	IMAGE Format = "IMAGE" // scanned page images
)

// Extraction method tags. Diagnostic only; downstream logic never branches on them.
const (
	MethodDocx        = "docx-xml"
	MethodAntiword    = "doc-antiword"
	MethodCatdoc      = "doc-catdoc"
	MethodSalvage     = "doc-salvage"
	MethodPDFText     = "pdf-text"
	MethodPDFOCR      = "pdf-ocr"
	MethodImageOCR    = "image-ocr"
	MethodPlainText   = "plain-text"
	MethodMarkupStrip = "markup-strip"
	MethodRTF         = "rtf-strip"
	MethodCSV         = "csv-rows"
	MethodXLSX        = "xlsx-rows"
	MethodJSON        = "json-values"
	MethodUnsupported = "unsupported"
)

// AllowedExtensions maps every supported file extension to its format.
var AllowedExtensions = map[string]Format{
	"docx": DOCX,
	"doc":  DOC,
	"pdf":  PDF,
	"txt":  TEXT,
	"rtf":  TEXT,
	"html": TEXT,
	"htm":  TEXT,
	"csv":  TABLE,
	"xlsx": TABLE,
	"json": JSON,
	"png":  IMAGE,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
}

// MediaTypes maps declared media types to formats. Generic types
// (application/octet-stream, empty) are deliberately absent.
var MediaTypes = map[string]Format{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": DOCX,
	"application/msword": DOC,
	"application/pdf":    PDF,
	"text/plain":         TEXT,
	"text/rtf":           TEXT,
	"application/rtf":    TEXT,
	"text/html":          TEXT,
	"text/csv":           TABLE,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": TABLE,
	"application/json": JSON,
	"image/png":        IMAGE,
	"image/jpeg":       IMAGE,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the format for an extension, or "" when unsupported.
func MapExtToFormat(ext string) Format {
	return AllowedExtensions[NormalizeExt(ext)]
}

// SupportedExtensions returns the allow-list in stable order, for error messages.
func SupportedExtensions() []string {
	return []string{"docx", "doc", "pdf", "txt", "rtf", "html", "htm", "csv", "xlsx", "json", "png", "jpg", "jpeg"}
}
