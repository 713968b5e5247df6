// =============================================================================
// Docflow - Document Parser
// =============================================================================
//
// Parser drives one document through the pipeline: open the workbook, gate
// it on the template headers, hand it to the template's strategy, and record
// an audit entry. Each Parse call owns a fresh validator and result, so one
// Parser instance can be reused across documents of the same partner and
// template.
//
// PARSE PIPELINE:
//   1. Validate the header labels against the field map
//   2. Run the template strategy (reconcile or row walk)
//   3. Record the audit entry
//   4. Expose the result and the accumulated cell errors
//
// =============================================================================

package parsing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/partnerdesk/docflow/internal/order"
	"github.com/partnerdesk/docflow/internal/rules"
	"github.com/partnerdesk/docflow/internal/sheet"
	"github.com/partnerdesk/docflow/internal/template"
)

// =============================================================================
// LOGGING
// =============================================================================

// Logger is an interface for logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// defaultLogger is a simple logger that prints to stdout.
type defaultLogger struct{}

func (l *defaultLogger) Debug(msg string, args ...interface{}) {
	fmt.Printf("[DEBUG] "+msg+"\n", args...)
}

func (l *defaultLogger) Info(msg string, args ...interface{}) {
	fmt.Printf("[INFO] "+msg+"\n", args...)
}

func (l *defaultLogger) Warn(msg string, args ...interface{}) {
	fmt.Printf("[WARN] "+msg+"\n", args...)
}

func (l *defaultLogger) Error(msg string, args ...interface{}) {
	fmt.Printf("[ERROR] "+msg+"\n", args...)
}

// =============================================================================
// AUDIT TRAIL
// =============================================================================

// FileRecord is the audit entry written after every parse attempt,
// successful or not.
type FileRecord struct {
	// ID is a unique identifier for this parse attempt.
	ID string

	// Partner and Template identify the field-map scope.
	Partner  string
	Template template.Code

	// Path is the document that was parsed.
	Path string

	// ParsedAt is when the parse finished.
	ParsedAt time.Time

	// Outcome is the reconciliation verdict; unresolved when the parse
	// failed.
	Outcome Outcome

	// CellErrors counts the recorded cell error ranges.
	CellErrors int

	// Failure holds the failure text when the parse aborted, empty
	// otherwise.
	Failure string
}

// FileRecorder receives audit entries. Implementations must tolerate
// concurrent calls.
type FileRecorder interface {
	RecordFile(rec FileRecord) error
}

// =============================================================================
// STRATEGIES
// =============================================================================

// Strategy is the per-template parse behavior.
type Strategy interface {
	// Code names the template kind this strategy handles.
	Code() template.Code

	// MatchesFileName is a cheap check that an attachment name looks like
	// this document kind. It runs before the header gate.
	MatchesFileName(name string) bool

	// Parse processes the document body and populates res.
	Parse(p *Parser, origin, received sheet.Reader, res *Result) error
}

// StrategyFor returns the strategy for a template code.
func StrategyFor(code template.Code, store order.Store) (Strategy, bool) {
	switch code {
	case template.CodeOrder:
		return &orderStrategy{engine: NewEngine(store), store: store}, true
	case template.CodePrice:
		return &rowWalkStrategy{
			code:   template.CodePrice,
			fields: []template.FieldCode{template.FieldItemNumber, template.FieldItemPrice, template.FieldMultiplicity},
		}, true
	case template.CodeUpd:
		return &rowWalkStrategy{
			code:   template.CodeUpd,
			fields: []template.FieldCode{template.FieldItemNumber, template.FieldItemCount, template.FieldItemDeliveryDate},
		}, true
	}
	return nil, false
}

// =============================================================================
// PARSER
// =============================================================================

// Parser parses one document kind for one partner.
type Parser struct {
	fm       *template.FieldMap
	strategy Strategy
	recorder FileRecorder
	logger   Logger

	validator *CellValidator
	result    *Result
}

// Option adjusts a Parser at construction time.
type Option func(*Parser)

// WithRecorder wires an audit recorder. Parses are not recorded without one.
func WithRecorder(r FileRecorder) Option {
	return func(p *Parser) { p.recorder = r }
}

// WithLogger replaces the default stdout logger.
func WithLogger(l Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// NewParser creates a parser over the given field map and strategy.
func NewParser(fm *template.FieldMap, strategy Strategy, opts ...Option) *Parser {
	p := &Parser{
		fm:       fm,
		strategy: strategy,
		logger:   &defaultLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadFile opens a workbook for parsing. The caller owns the returned handle
// and must close it.
func (p *Parser) LoadFile(path string) (*sheet.Excel, error) {
	return sheet.OpenExcel(path)
}

// ValidateFile gates the document on its header labels. A mismatch is a
// structural failure; no row parsing may follow.
func (p *Parser) ValidateFile(s sheet.Reader) error {
	if !ValidFile(s, p.fm) {
		return structuralFailure(ErrFileTypeMismatch)
	}
	return nil
}

// Parse runs the full pipeline for one document. path is used only for the
// audit entry. The returned result is read-only; cell-level findings are
// inspected through Errors afterwards.
func (p *Parser) Parse(path string, origin, received sheet.Reader) (*Result, error) {
	p.validator = NewCellValidator(ChainsFor(p.strategy.Code()))
	p.result = &Result{}

	err := p.ValidateFile(received)
	if err == nil {
		err = p.strategy.Parse(p, origin, received, p.result)
	}

	if err != nil {
		p.logger.Warn("Parse failed for %s: %v", path, err)
	} else {
		p.logger.Info("Parsed %s: outcome=%s rows=%d errors=%d",
			path, p.result.Outcome, p.result.RowsProcessed, p.validator.Errors().Len())
	}

	p.record(path, err)
	return p.result, err
}

// Errors returns a detached copy of the cell errors accumulated by the last
// Parse call. Later parses on the same Parser do not touch it.
func (p *Parser) Errors() *ErrorMap {
	if p.validator == nil {
		return newErrorMap()
	}
	return p.validator.Errors().clone()
}

// record writes the audit entry for the parse attempt.
func (p *Parser) record(path string, parseErr error) {
	if p.recorder == nil {
		return
	}

	rec := FileRecord{
		ID:         uuid.New().String(),
		Partner:    p.fm.Partner(),
		Template:   p.strategy.Code(),
		Path:       path,
		ParsedAt:   time.Now(),
		Outcome:    p.result.Outcome,
		CellErrors: p.validator.Errors().Len(),
	}
	if parseErr != nil {
		rec.Failure = parseErr.Error()
	}

	if err := p.recorder.RecordFile(rec); err != nil {
		p.logger.Error("Failed to record parse of %s: %v", path, err)
	}
}

// =============================================================================
// ORDER STRATEGY
// =============================================================================

// orderStrategy reconciles an order response document. The document carries
// exactly one item row.
type orderStrategy struct {
	engine *Engine
	store  order.Store
}

func (s *orderStrategy) Code() template.Code { return template.CodeOrder }

func (s *orderStrategy) MatchesFileName(name string) bool {
	return strings.Contains(strings.ToLower(name), string(template.CodeOrder))
}

func (s *orderStrategy) Parse(p *Parser, origin, received sheet.Reader, res *Result) error {
	number, ok, err := p.fm.ResolveValue(received, template.FieldOrderNumber)
	if err != nil {
		return configurationFailure(err)
	}
	if !ok {
		return reconciliationFailure(ErrItemNotFound)
	}

	o, found := s.store.FindOrder(sheet.Normalize(number))
	if !found {
		return reconciliationFailure(ErrItemNotFound)
	}

	// The origin document is looked up from the order record unless the
	// caller supplied a sheet directly.
	if origin == nil {
		x, err := sheet.OpenExcel(o.FilePath)
		if err != nil {
			return reconciliationFailure(fmt.Errorf("origin document for order %q: %w", o.Number, err))
		}
		defer x.Close()
		origin = x
	}

	return s.engine.ReconcileRow(o, origin, received, p.fm, p.validator, res)
}

// =============================================================================
// ROW WALK STRATEGY
// =============================================================================

// maxConsecutiveEmptyRows is how many fully empty rows end a row walk.
const maxConsecutiveEmptyRows = 3

// rowWalkStrategy validates multi-row documents (price lists, stock
// updates). It walks rows from the first data row until a run of empty rows,
// feeding every mapped cell through the validator. No reconciliation runs;
// the verdict for these documents is the error map alone.
type rowWalkStrategy struct {
	code   template.Code
	fields []template.FieldCode
}

func (s *rowWalkStrategy) Code() template.Code { return s.code }

func (s *rowWalkStrategy) MatchesFileName(name string) bool {
	return strings.Contains(strings.ToLower(name), string(s.code))
}

func (s *rowWalkStrategy) Parse(p *Parser, _, received sheet.Reader, res *Result) error {
	type column struct {
		field template.FieldCode
		col   string
	}

	cols := make([]column, 0, len(s.fields))
	startRow := 0
	for _, f := range s.fields {
		m, err := p.fm.Resolve(f)
		if err != nil {
			return configurationFailure(err)
		}
		cols = append(cols, column{field: f, col: m.ValueColumn})
		if startRow == 0 || m.ValueRow < startRow {
			startRow = m.ValueRow
		}
	}

	empty := 0
	for row := startRow; empty < maxConsecutiveEmptyRows; row++ {
		anyValue := false
		for _, c := range cols {
			if _, ok := received.Cell(c.col, row); ok {
				anyValue = true
				break
			}
		}
		if !anyValue {
			empty++
			continue
		}
		empty = 0

		for _, c := range cols {
			value, ok := received.Cell(c.col, row)
			if _, err := p.validator.ValidateCell(c.field, row, c.col, value, ok); err != nil {
				return err
			}
		}
		res.RowsProcessed++
	}

	return nil
}

// =============================================================================
// RULE CHAIN REGISTRY
// =============================================================================

// countSymbols are the extra characters tolerated (and stripped) in count
// cells. Partners key quantities like "10`s"; the chain reduces that to the
// bare number before the numeric check.
var countSymbols = []rune{'`', 's'}

// ChainsFor returns the rule chains for a template kind, keyed by field
// code. Fields absent from the map are unchecked.
func ChainsFor(code template.Code) map[template.FieldCode]rules.Chain {
	numeric := rules.Chain{rules.Numeric{}, rules.PositiveNumber{}}
	text := rules.Chain{rules.Text{}, rules.Symbols{}}
	count := rules.Chain{rules.NewCustomSymbols(countSymbols...), rules.Numeric{}}

	switch code {
	case template.CodeOrder:
		return map[template.FieldCode]rules.Chain{
			template.FieldItemNumber:       text,
			template.FieldItemCount:        count,
			template.FieldItemPrice:        numeric,
			template.FieldItemDeliveryDate: numeric,
		}
	case template.CodePrice:
		return map[template.FieldCode]rules.Chain{
			template.FieldItemNumber:   text,
			template.FieldItemPrice:    numeric,
			template.FieldMultiplicity: numeric,
		}
	case template.CodeUpd:
		return map[template.FieldCode]rules.Chain{
			template.FieldItemNumber:       text,
			template.FieldItemCount:        count,
			template.FieldItemDeliveryDate: numeric,
		}
	}
	return nil
}
