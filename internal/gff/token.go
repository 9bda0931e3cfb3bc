package gff

import (
	"fmt"
	"strconv"
	"strings"
)

// LineKind classifies one raw input line.
type LineKind int

const (
	// LineComment is a '#' comment, pragma we do not interpret, or blank line.
	LineComment LineKind = iota
	// LineClose is the bare "###" pragma: flush pending orphan resolution.
	LineClose
	// LineSequenceRegion is a "##sequence-region <id> <start> <end>" pragma.
	LineSequenceRegion
	// LineSequenceHeader marks embedded sequence ('>' or "##FASTA"): the end
	// of usable annotation.
	LineSequenceHeader
	// LineData is a nine-column tab-separated data record.
	LineData
)

// Line is one classified input line.
type Line struct {
	Kind   LineKind
	Fields []string // The nine columns of a data record
	SeqID  string   // Sequence-region pragma only
	Length int64    // Sequence-region pragma only: highest coordinate
}

// classifyLine tokenizes one raw line. Data lines with a column count other
// than nine and malformed sequence-region pragmas return an error; callers
// skip those lines and keep parsing.
func classifyLine(raw string) (Line, error) {
	line := strings.TrimRight(raw, "\r\n")

	switch {
	case line == "":
		return Line{Kind: LineComment}, nil
	case line == "###":
		return Line{Kind: LineClose}, nil
	case strings.HasPrefix(line, ">"), strings.HasPrefix(line, "##FASTA"):
		return Line{Kind: LineSequenceHeader}, nil
	case strings.HasPrefix(line, "##sequence-region"):
		return classifySequenceRegion(line)
	case strings.HasPrefix(line, "#"):
		return Line{Kind: LineComment}, nil
	}

	fields := strings.Split(line, "\t")
	if len(fields) != 9 {
		return Line{}, fmt.Errorf("expected 9 tab-separated columns, found %d", len(fields))
	}
	return Line{Kind: LineData, Fields: fields}, nil
}

func classifySequenceRegion(line string) (Line, error) {
	parts := strings.Fields(line)
	if len(parts) < 4 {
		return Line{}, fmt.Errorf("malformed sequence-region pragma: %q", line)
	}
	length, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return Line{}, fmt.Errorf("malformed sequence-region pragma: %q", line)
	}
	return Line{Kind: LineSequenceRegion, SeqID: parts[1], Length: length}, nil
}
