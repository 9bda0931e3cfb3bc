// Package output provides feature-table output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tjparnell/gffkit/internal/gff"
)

// TabWriter writes a flattened feature tree in tab-delimited format, one
// row per feature, children after their parents.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited feature writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Primary_ID",
			"Name",
			"Type",
			"SeqID",
			"Start",
			"End",
			"Strand",
			"Score",
			"Phase",
			"Parents",
		},
	}
}

// WriteHeader writes the column header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a top-level feature and all of its descendants.
func (tw *TabWriter) Write(f *gff.Feature) error {
	var werr error
	f.Walk(func(feat *gff.Feature) {
		if werr != nil {
			return
		}
		werr = tw.writeRow(feat)
	})
	return werr
}

func (tw *TabWriter) writeRow(f *gff.Feature) error {
	score := "."
	if f.Score != nil {
		score = strconv.FormatFloat(*f.Score, 'g', -1, 64)
	}
	phase := "."
	if f.Phase >= 0 {
		phase = strconv.Itoa(f.Phase)
	}
	name := f.Name
	if name == "" {
		name = "-"
	}
	parents := "-"
	if len(f.ParentIDs) > 0 {
		parents = strings.Join(f.ParentIDs, ",")
	}

	_, err := fmt.Fprintf(tw.w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
		f.PrimaryID, name, f.Type, f.SeqID, f.Start, f.End,
		strandString(f.Strand), score, phase, parents)
	return err
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func strandString(s int8) string {
	switch s {
	case gff.StrandForward:
		return "+"
	case gff.StrandReverse:
		return "-"
	default:
		return "."
	}
}
