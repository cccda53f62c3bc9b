package schemas

import (
	"bytes"
	"encoding/json"
	"strings"

	"lifelens/internal/model"
)

// ResultKind tags the outcome of ParseSections.
type ResultKind int

const (
	Unstructured ResultKind = iota
	Structured
)

func (k ResultKind) String() string {
	if k == Structured {
		return "structured"
	}
	return "unstructured"
}

// SectionResult is the tagged result of decoding generated text into sections.
type SectionResult struct {
	Kind     ResultKind
	Document model.SectionDocument
	// Present lists the keys that decoded to a non-empty value, in section order.
	Present []model.SectionKey
	Raw     string
}

// IsStructured reports whether at least one section was recovered.
func (r SectionResult) IsStructured() bool {
	return r.Kind == Structured
}

// Missing returns the section keys the decode did not fill.
func (r SectionResult) Missing() []model.SectionKey {
	have := make(map[model.SectionKey]bool, len(r.Present))
	for _, k := range r.Present {
		have[k] = true
	}
	var missing []model.SectionKey
	for _, k := range model.SectionOrder {
		if !have[k] {
			missing = append(missing, k)
		}
	}
	return missing
}

// ParseSections decodes raw as a single JSON object keyed by section names.
// A surrounding markdown code fence is tolerated; anything else around the
// object makes the text Unstructured. Unknown keys are ignored.
func ParseSections(raw string) SectionResult {
	result := SectionResult{Kind: Unstructured, Raw: raw}

	body := stripCodeFence(strings.TrimSpace(raw))
	if !strings.HasPrefix(body, "{") {
		return result
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil || fields == nil {
		return result
	}

	for _, key := range model.SectionOrder {
		value, ok := fields[string(key)]
		if !ok {
			continue
		}
		text := strings.TrimSpace(coerceString(value))
		if text == "" {
			continue
		}
		result.Document.Set(key, text)
		result.Present = append(result.Present, key)
	}

	if len(result.Present) > 0 {
		result.Kind = Structured
	}
	return result
}

// UnwrapNested handles a model that nested its JSON answer inside the first
// field. When the introduction's text between its first '{' and last '}'
// decodes with an introduction of its own, the decoded sections replace the
// document and any key the payload left empty gets the introduction's text.
func UnwrapNested(doc model.SectionDocument) (model.SectionDocument, bool) {
	source := strings.TrimSpace(doc.Introduction)
	start := strings.Index(source, "{")
	end := strings.LastIndex(source, "}")
	if start < 0 || end <= start {
		return doc, false
	}
	nested := ParseSections(source[start : end+1])
	if !nested.IsStructured() || nested.Document.Introduction == "" {
		return doc, false
	}
	unwrapped := nested.Document
	unwrapped.FillEmpty(source)
	return unwrapped, true
}

// ResolveDocument unwraps nested payloads until the introduction no longer
// carries one. Resolving a resolved document returns it unchanged.
func ResolveDocument(doc model.SectionDocument) (model.SectionDocument, bool) {
	changed := false
	// Each unwrap strictly shortens the introduction, so this terminates.
	for {
		unwrapped, ok := UnwrapNested(doc)
		if !ok {
			return doc, changed
		}
		doc, changed = unwrapped, true
	}
}

// Resolve returns the document every presentation should show. doc is not
// modified.
func Resolve(doc *model.SectionDocument) *model.SectionDocument {
	if doc == nil {
		return nil
	}
	resolved, _ := ResolveDocument(*doc)
	return &resolved
}

// coerceString renders a JSON value as section text. Strings are unquoted,
// null is empty, and everything else keeps its compact JSON form.
func coerceString(value json.RawMessage) string {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
		return ""
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed)
	}
	return compact.String()
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	// Drop the language tag on the opening line.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && !strings.Contains(inner[:nl], "{") {
		inner = inner[nl+1:]
	}
	return strings.TrimSpace(inner)
}
