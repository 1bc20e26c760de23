package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/tenderdesk/tender-extract/constants"
	"github.com/tenderdesk/tender-extract/internal/ocr"
)

var (
	reMarkupTag    = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	reAnyTag       = regexp.MustCompile(`(?s)<[^>]+>`)
	reStructural   = regexp.MustCompile(`(?i)<(html|head|body|div|table|p|br|span)\b`)
	reRTFEscape    = regexp.MustCompile(`\\'[0-9a-fA-F]{2}`)
	reRTFControl   = regexp.MustCompile(`\\[a-zA-Z]+-?\d* ?`)
	reRTFGroupJunk = regexp.MustCompile(`[{}]`)
)

// extractText handles plain text, rich text and markup text. Markup is
// detected heuristically and stripped; when stripping leaves too little
// behind the unstripped text wins, with a warning.
func (e *Extractor) extractText(_ context.Context, doc SourceDocument, _ string, _ ocr.ProgressFunc) (string, string, int, []string, error) {
	raw, warns := decodeBytes(doc.Data)

	if strings.HasPrefix(strings.TrimSpace(raw), `{\rtf`) {
		return stripRTF(raw), constants.MethodRTF, 0, warns, nil
	}

	if looksLikeMarkup(raw) {
		stripped := stripMarkup(raw)
		if len(strings.TrimSpace(stripped)) < e.cfg.MinMarkupStripChars {
			warns = append(warns, "markup strip left too little text; using unstripped content")
			return raw, constants.MethodPlainText, 0, warns, nil
		}
		return stripped, constants.MethodMarkupStrip, 0, warns, nil
	}

	return raw, constants.MethodPlainText, 0, warns, nil
}

// extractJSON flattens a structured-text document into "path: value" lines so
// the disambiguation engine sees it as tabular content.
func (e *Extractor) extractJSON(_ context.Context, doc SourceDocument, _ string, _ ocr.ProgressFunc) (string, string, int, []string, error) {
	var v any
	if err := json.Unmarshal(doc.Data, &v); err != nil {
		return "", constants.MethodJSON, 0, nil, fmt.Errorf("parse json: %w", err)
	}

	var lines []string
	flattenJSON("", v, &lines)
	return strings.Join(lines, "\n"), constants.MethodJSON, 0, nil, nil
}

func flattenJSON(prefix string, v any, out *[]string) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			flattenJSON(p, t[k], out)
		}
	case []any:
		for i, item := range t {
			flattenJSON(fmt.Sprintf("%s[%d]", prefix, i), item, out)
		}
	case string:
		*out = append(*out, prefix+": "+t)
	case float64:
		*out = append(*out, prefix+": "+strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%f", t), "0"), "."))
	case bool:
		*out = append(*out, fmt.Sprintf("%s: %t", prefix, t))
	case nil:
		// skip nulls
	}
}

func looksLikeMarkup(s string) bool {
	head := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		return true
	}
	return reStructural.MatchString(s)
}

func stripMarkup(s string) string {
	s = reMarkupTag.ReplaceAllString(s, " ")
	s = reAnyTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	// collapse the holes left by removed tags, preserving line structure
	lines := strings.Split(s, "\n")
	var out []string
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}

func stripRTF(s string) string {
	s = strings.ReplaceAll(s, `\par`, "\n")
	s = reRTFEscape.ReplaceAllString(s, " ")
	s = reRTFControl.ReplaceAllString(s, " ")
	s = reRTFGroupJunk.ReplaceAllString(s, "")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.Join(strings.Fields(lines[i]), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
