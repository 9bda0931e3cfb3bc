package gff

import (
	"fmt"
	"strconv"
)

// recordConverter turns one classified data line into a fully attributed
// feature. One implementation exists per dialect; the parser selects one at
// open time and keeps it for the instance's lifetime.
type recordConverter interface {
	// Convert builds a feature from the nine columns of a data record. A
	// nil feature with nil error means the record was consumed in place
	// (e.g. a genuine GTF transcript line updating its synthesized
	// placeholder) and nothing new should be emitted.
	Convert(fields []string) (*Feature, error)
}

// newBaseFeature builds the dialect-independent part of a feature from
// columns 1-8. Column 9 is left to the dialect converters.
func (p *Parser) newBaseFeature(fields []string) (*Feature, error) {
	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid start coordinate %q", fields[3])
	}
	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid end coordinate %q", fields[4])
	}
	if end < start {
		return nil, fmt.Errorf("end %d before start %d", end, start)
	}

	f := p.opts.NewFeature()
	f.SeqID = fields[0]
	f.Source = fields[1]
	f.Type = fields[2]
	f.Start = start
	f.End = end
	f.Phase = -1

	if fields[5] != "." && fields[5] != "" {
		if score, err := strconv.ParseFloat(fields[5], 64); err == nil {
			f.Score = &score
		}
	}

	switch fields[6] {
	case "+":
		f.Strand = StrandForward
	case "-":
		f.Strand = StrandReverse
	default:
		f.Strand = StrandUnknown
	}

	if phase, err := strconv.Atoi(fields[7]); err == nil && phase >= 0 && phase <= 2 {
		f.Phase = phase
	}

	return f, nil
}

// nextID synthesizes an identifier for a record that declared none, as
// "<type>.<n>" with a per-type, per-parser counter.
func (p *Parser) nextID(typ string) string {
	p.counters[typ]++
	return fmt.Sprintf("%s.%d", typ, p.counters[typ])
}
