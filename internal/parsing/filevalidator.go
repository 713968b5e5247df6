// =============================================================================
// Docflow - Template File Validation
// =============================================================================

package parsing

import (
	"github.com/partnerdesk/docflow/internal/sheet"
	"github.com/partnerdesk/docflow/internal/template"
)

// ValidFile reports whether the sheet's header cells carry the labels the
// field map expects. This is a structural gate and must run before any
// row-level parsing.
//
// A map with zero configured mappings can never match a file, so the result
// is false. Header values are whitespace-normalized (newlines become spaces,
// ends trimmed) before the exact comparison. The scan follows the map's
// natural field order and stops at the first mismatch.
func ValidFile(s sheet.Reader, fm *template.FieldMap) bool {
	mappings := fm.Mappings()
	if len(mappings) == 0 {
		return false
	}

	for _, m := range mappings {
		value, ok := s.Cell(m.Column, m.Row)
		if !ok {
			return false
		}
		if sheet.Normalize(value) != m.Label {
			return false
		}
	}
	return true
}
