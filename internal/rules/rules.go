// =============================================================================
// Docflow - Cell Validation Rules
// =============================================================================
//
// This package provides the single-value checks and normalizers the cell
// validator composes into per-field rule chains. The rule set is closed: the
// five variants below are the whole vocabulary, and new behavior is added by
// a new variant, not by probing arbitrary objects for capabilities.
//
// Rules are pure. Each consumes a value and returns a Result carrying:
//   - Valid: whether the value passed this rule's check
//   - Value: the value handed to the next rule in the chain (rules that
//     normalize rewrite it; rules that only check pass it through)
//   - Message: optional human text for the recorded error; rules without a
//     message fail silently and the chain falls back to a generic fill error
//
// CHAIN SEMANTICS:
//   A chain runs every rule in sequence, always feeding each rule the
//   previous rule's output value. Only the first message encountered is
//   kept, even though later rules still run for normalization. A chain is
//   invalid when any rule failed, or when the final normalized value ends up
//   empty with no rule objecting.
//
// =============================================================================

package rules

import (
	"strconv"
	"strings"
	"unicode"
)

// Result is the outcome of one rule applied to one value.
type Result struct {
	Valid   bool
	Value   string
	Message string
}

// Rule is a single composable cell check.
type Rule interface {
	Validate(value string) Result
}

// =============================================================================
// RULE VARIANTS
// =============================================================================

// Numeric accepts values that parse as a number after thousands separators
// are stripped, and normalizes them to a canonical decimal string. Fails
// without a message; the chain's generic fill error covers it.
type Numeric struct{}

func (Numeric) Validate(value string) Result {
	n, err := ParseNumber(value)
	if err != nil {
		return Result{Valid: false, Value: value}
	}
	return Result{Valid: true, Value: FormatNumber(n)}
}

// Text accepts values that are non-empty after trimming and contain no
// control characters. Passes the value through unchanged.
type Text struct{}

func (Text) Validate(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Result{Valid: false, Value: value}
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return Result{Valid: false, Value: value}
		}
	}
	return Result{Valid: true, Value: value}
}

// Symbols accepts values built only from letters, digits, whitespace and the
// punctuation ". , - /". Anything else flags a fill error.
type Symbols struct{}

// symbolsPunctuation is the fixed allowed punctuation for the Symbols rule.
const symbolsPunctuation = ".,-/"

func (Symbols) Validate(value string) Result {
	for _, r := range value {
		if allowedRune(r, symbolsPunctuation) {
			continue
		}
		return Result{Valid: false, Value: value, Message: "fill error: value contains invalid characters"}
	}
	return Result{Valid: true, Value: value}
}

// CustomSymbols is the Symbols check with a caller-supplied punctuation set,
// used for per-field exceptions (for example allowing "`" and "s" in count
// cells). On success the extra symbols are stripped from the value so that a
// downstream Numeric rule sees the bare number.
type CustomSymbols struct {
	extra string
}

// NewCustomSymbols builds a CustomSymbols rule allowing the given extra
// characters alongside letters, digits and whitespace.
func NewCustomSymbols(extra ...rune) CustomSymbols {
	return CustomSymbols{extra: string(extra)}
}

func (c CustomSymbols) Validate(value string) Result {
	for _, r := range value {
		if allowedRune(r, c.extra) {
			continue
		}
		return Result{Valid: false, Value: value, Message: "fill error: value contains invalid characters"}
	}

	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(c.extra, r) {
			return -1
		}
		return r
	}, value)

	return Result{Valid: true, Value: strings.TrimSpace(stripped)}
}

// PositiveNumber accepts values that, interpreted as a number, are >= 0.
// Unparseable values fail silently (a Numeric rule in the chain reports
// those); negative values carry their own message.
type PositiveNumber struct{}

func (PositiveNumber) Validate(value string) Result {
	n, err := ParseNumber(value)
	if err != nil {
		return Result{Valid: false, Value: value}
	}
	if n < 0 {
		return Result{Valid: false, Value: value, Message: "fill error: value must not be negative"}
	}
	return Result{Valid: true, Value: value}
}

// allowedRune reports whether r is a letter, digit, whitespace, or one of
// the extra punctuation characters.
func allowedRune(r rune, extra string) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
		strings.ContainsRune(extra, r)
}

// =============================================================================
// RULE CHAINS
// =============================================================================

// Chain is an ordered rule sequence for one field code.
type Chain []Rule

// ChainResult is the outcome of a full chain run.
type ChainResult struct {
	// Normalized is the cumulative value after every rule has run.
	Normalized string

	// Invalid is true when the chain found the value unacceptable.
	Invalid bool

	// Message is the first message any failing rule supplied. Empty when no
	// failing rule carried one; the caller records a generic fill error then.
	Message string
}

// Run executes the chain against value. All rules run even after a failure:
// later rules still normalize, but only the first message is kept.
func (c Chain) Run(value string) ChainResult {
	res := ChainResult{Normalized: value}

	for _, rule := range c {
		r := rule.Validate(res.Normalized)
		if !r.Valid {
			res.Invalid = true
			if res.Message == "" && r.Message != "" {
				res.Message = r.Message
			}
		}
		res.Normalized = r.Value
	}

	if !res.Invalid && strings.TrimSpace(res.Normalized) == "" {
		res.Invalid = true
	}

	return res
}

// =============================================================================
// NUMERIC HELPERS
// =============================================================================

// ParseNumber parses a cell value as a number after stripping thousands
// separators (commas and spaces).
func ParseNumber(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	return strconv.ParseFloat(cleaned, 64)
}

// FormatNumber renders a number in the canonical form rule chains hand
// downstream: no exponent, no trailing zeros.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
