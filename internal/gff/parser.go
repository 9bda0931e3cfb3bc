// Package gff parses GFF3, GTF, and generic GFF annotation files into a
// nested gene -> transcript -> exon/CDS feature hierarchy.
package gff

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"
)

// Usage errors that abort an open or parse call. Everything else the parser
// encounters is recovered, logged, and summarized.
var (
	// ErrSourceBound is returned when a second input source is bound to a
	// parser instance that already has one.
	ErrSourceBound = errors.New("gff: parser is already bound to an input source")
	// ErrNoSource is returned when a parse is requested before any input
	// source is bound.
	ErrNoSource = errors.New("gff: no input source bound")
)

// ParseError reports a fatal problem with the input, with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gff parse error at line %d: %s", e.Line, e.Message)
}

// parserState tracks the driver state machine.
type parserState int

const (
	stateUnopened parserState = iota
	stateOpen
	stateStreaming
	stateExhausted
)

// sampleLines is how many data lines dialect detection inspects.
const sampleLines = 100

// Options configure a Parser at construction time.
type Options struct {
	// Dialect overrides detection when not DialectAuto.
	Dialect Dialect
	// IncludeGene materializes gene-level features (default true).
	IncludeGene bool
	// IncludeExon materializes exon features (default true).
	IncludeExon bool
	// IncludeCDS, IncludeUTR, and IncludeCodon materialize the remaining
	// subfeature classes (default false).
	IncludeCDS   bool
	IncludeUTR   bool
	IncludeCodon bool
	// Simplify retains only identity, name, and parentage attributes.
	Simplify bool
	// NewFeature allocates feature objects, for interop with a caller
	// supplied feature abstraction. Defaults to a plain &Feature{}.
	NewFeature func() *Feature
}

// DefaultOptions returns the standard configuration: genes and exons
// materialized, CDS/UTR/codon subfeatures skipped, full attributes kept.
func DefaultOptions() Options {
	return Options{
		IncludeGene: true,
		IncludeExon: true,
		NewFeature:  func() *Feature { return new(Feature) },
	}
}

// Summary is the structured result of a full parse.
type Summary struct {
	TopLevel   int            // Count of top-level (root) features
	Duplicates map[string]int // Identifier -> registrations beyond the first with a matching type
	Orphans    int            // Features whose parent reference never resolved
}

// Parser reads one annotation source and reconstructs its feature
// hierarchy. A parser instance binds exactly one source and is not
// restartable; parse a second file with a second instance. All state is
// owned by the instance and mutated only on the goroutine driving the pull
// loop.
type Parser struct {
	opts   Options
	logger *zap.Logger

	file       *os.File
	gzipReader *gzip.Reader
	reader     *bufio.Reader
	lineNumber int

	state   parserState
	dialect Dialect
	conv    recordConverter
	// forceSynthesis records that the caller wanted gene/transcript levels
	// but the sample showed only subordinate records, so ancestors are
	// synthesized from the grouping keys.
	forceSynthesis bool
	types          map[string]bool
	replay         []string

	registry   *Registry
	asm        *assembler
	counters   map[string]int
	seqRegions map[string]int64

	flushPending bool
	summary      *Summary
	fatal        error
}

// New creates a parser with the given options. Bind a source with Open or
// OpenReader before pulling features.
func New(opts Options) *Parser {
	if opts.NewFeature == nil {
		opts.NewFeature = func() *Feature { return new(Feature) }
	}
	registry := NewRegistry()
	return &Parser{
		opts:       opts,
		logger:     zap.NewNop(),
		registry:   registry,
		asm:        newAssembler(registry),
		counters:   make(map[string]int),
		seqRegions: make(map[string]int64),
	}
}

// SetLogger sets the logger for recovered-problem warnings.
func (p *Parser) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Open binds a file as the parser's input source. Plain and gzipped files
// are both accepted; gzip is detected from the magic bytes, not the file
// name. Binding a second source to the same instance is a usage error.
func (p *Parser) Open(path string) error {
	if p.state != stateUnopened {
		return ErrSourceBound
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open annotation file: %w", err)
	}

	magic := make([]byte, 2)
	n, _ := file.Read(magic)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return fmt.Errorf("seek annotation file: %w", err)
	}

	p.file = file
	if n == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return fmt.Errorf("open gzip reader: %w", err)
		}
		p.gzipReader = gz
		p.reader = bufio.NewReader(gz)
	} else {
		p.reader = bufio.NewReader(file)
	}

	p.state = stateOpen
	return nil
}

// OpenReader binds an io.Reader (e.g. stdin) as the input source.
func (p *Parser) OpenReader(r io.Reader) error {
	if p.state != stateUnopened {
		return ErrSourceBound
	}
	p.reader = bufio.NewReader(r)
	p.state = stateOpen
	return nil
}

// Close releases the bound source. The parser cannot be reused afterwards.
func (p *Parser) Close() error {
	p.state = stateExhausted
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// Dialect returns the detected or overridden dialect. DialectAuto until the
// first feature pull.
func (p *Parser) Dialect() Dialect {
	return p.dialect
}

// Types returns the sorted type tokens observed during dialect detection.
func (p *Parser) Types() []string {
	types := make([]string, 0, len(p.types))
	for t := range p.types {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Next pulls the next feature from the source. It loops internally over
// comments and pragmas, skips malformed lines with a warning, and returns
// nil, nil once the source is exhausted or an embedded-sequence block
// begins. Next does not assemble hierarchy; it suits flat iteration.
func (p *Parser) Next() (*Feature, error) {
	switch p.state {
	case stateUnopened:
		return nil, ErrNoSource
	case stateExhausted:
		return nil, p.fatal
	case stateOpen:
		if err := p.begin(); err != nil {
			p.state = stateExhausted
			p.fatal = err
			return nil, err
		}
	}

	for {
		raw, ok := p.nextLine()
		if !ok {
			p.state = stateExhausted
			return nil, nil
		}

		ln, err := classifyLine(raw)
		if err != nil {
			p.warnf("skipping line: %v", err)
			continue
		}

		switch ln.Kind {
		case LineComment:
			continue
		case LineClose:
			p.flushPending = true
			continue
		case LineSequenceRegion:
			p.seqRegions[ln.SeqID] = ln.Length
			continue
		case LineSequenceHeader:
			p.state = stateExhausted
			return nil, nil
		}

		if p.skipType(ln.Fields[2]) {
			continue
		}

		f, err := p.conv.Convert(ln.Fields)
		if err != nil {
			p.warnf("skipping record: %v", err)
			continue
		}
		if f == nil {
			// Consumed in place (placeholder ancestor updated).
			continue
		}
		return f, nil
	}
}

// ParseAll drains the source, feeding every feature through the hierarchy
// assembler, reconciling orphans at every "###" checkpoint and once more at
// end of file. It is idempotent: once the source is exhausted, repeated
// calls return the same summary without touching the source.
func (p *Parser) ParseAll() (*Summary, error) {
	if p.summary != nil {
		return p.summary, nil
	}
	if p.state == stateUnopened {
		return nil, ErrNoSource
	}

	for {
		f, err := p.Next()
		if err != nil {
			return nil, err
		}
		if p.flushPending {
			p.asm.Reconcile()
			p.flushPending = false
		}
		if f == nil {
			break
		}
		p.asm.Process(f)
	}
	p.asm.Reconcile()

	duplicates := make(map[string]int, len(p.asm.duplicates))
	for id, n := range p.asm.duplicates {
		duplicates[id] = n
	}
	p.summary = &Summary{
		TopLevel:   len(p.asm.topLevel),
		Duplicates: duplicates,
		Orphans:    len(p.registry.Orphans()),
	}
	p.logger.Info("parse complete",
		zap.String("dialect", p.dialect.String()),
		zap.Int("topLevel", p.summary.TopLevel),
		zap.Int("duplicates", len(duplicates)),
		zap.Int("orphans", p.summary.Orphans))
	return p.summary, nil
}

// TopFeatures returns the ordered top-level features, each the root of a
// fully attached subtree. Populated by ParseAll.
func (p *Parser) TopFeatures() []*Feature {
	return p.asm.topLevel
}

// Orphans returns the features whose declared parent reference never
// resolved. They stay queryable after the parse for caller inspection.
func (p *Parser) Orphans() []*Feature {
	return p.registry.Orphans()
}

// Duplicates returns the duplicate-identifier report.
func (p *Parser) Duplicates() map[string]int {
	return p.asm.duplicates
}

// MaxCoordinates returns the observed maximum coordinate per sequence.
func (p *Parser) MaxCoordinates() map[string]int64 {
	return p.asm.seqMax
}

// SequenceRegions returns the lengths declared by sequence-region pragmas.
func (p *Parser) SequenceRegions() map[string]int64 {
	return p.seqRegions
}

// begin runs lazy dialect detection on the first pull: it samples early
// data lines into a replay buffer, decides the dialect, and installs the
// matching record converter for the lifetime of the instance.
func (p *Parser) begin() error {
	var sample []Line
	for len(sample) < sampleLines {
		raw, err := p.reader.ReadString('\n')
		if raw != "" {
			p.replay = append(p.replay, raw)
			if ln, cerr := classifyLine(raw); cerr == nil {
				if ln.Kind == LineSequenceHeader {
					break
				}
				if ln.Kind == LineData {
					sample = append(sample, ln)
				}
			}
		}
		if err != nil {
			break
		}
	}

	det, derr := detectDialect(sample, p.opts.IncludeGene)
	p.types = det.types
	p.forceSynthesis = det.forceSynthesis

	dialect := p.opts.Dialect
	if dialect == DialectAuto {
		if derr != nil {
			return &ParseError{Line: p.lineNumber, Message: derr.Error()}
		}
		dialect = det.dialect
	}

	p.dialect = dialect
	p.asm.dialect = dialect
	switch dialect {
	case DialectGFF3:
		p.conv = &gff3Converter{p: p}
	case DialectGTF:
		p.conv = &gtfConverter{p: p}
	default:
		p.conv = &genericConverter{p: p}
	}

	if p.forceSynthesis {
		p.logger.Info("no gene or transcript records in sample, synthesizing ancestors from subordinate records",
			zap.String("dialect", dialect.String()))
	}

	p.state = stateStreaming
	return nil
}

// nextLine returns the next raw line, serving the detection replay buffer
// before reading fresh input.
func (p *Parser) nextLine() (string, bool) {
	if len(p.replay) > 0 {
		line := p.replay[0]
		p.replay = p.replay[1:]
		p.lineNumber++
		return line, true
	}
	if p.reader == nil {
		return "", false
	}
	line, err := p.reader.ReadString('\n')
	if line == "" && err != nil {
		return "", false
	}
	p.lineNumber++
	return line, true
}

// skipType applies the construction-time inclusion flags to a record type.
// Gene records are only suppressible in GTF input, where the gene level can
// be rebuilt from grouping keys; explicit-ID input keeps them so declared
// parent references stay resolvable.
func (p *Parser) skipType(typ string) bool {
	switch {
	case exonTypeRE.MatchString(typ):
		return !p.opts.IncludeExon
	case cdsTypeRE.MatchString(typ):
		return !p.opts.IncludeCDS
	case utrTypeRE.MatchString(typ):
		return !p.opts.IncludeUTR
	case codonTypeRE.MatchString(typ):
		return !p.opts.IncludeCodon
	case geneTypeRE.MatchString(typ):
		return !p.opts.IncludeGene && p.dialect == DialectGTF
	}
	return false
}

func (p *Parser) warnf(format string, args ...any) {
	p.logger.Warn(fmt.Sprintf(format, args...), zap.Int("line", p.lineNumber))
}
