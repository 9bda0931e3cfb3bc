// Package gff parses GFF3, GTF, and generic GFF annotation files into a
// nested gene -> transcript -> exon/CDS feature hierarchy.
package gff

// Strand constants for Feature.Strand.
const (
	StrandForward int8 = 1
	StrandReverse int8 = -1
	StrandUnknown int8 = 0
)

// Feature represents one annotated genomic interval. Parents hold the only
// materialized references to their children; children point back at parents
// by identifier string only, so feature trees contain no pointer cycles.
type Feature struct {
	PrimaryID string // Unique-ish identifier (ID= in GFF3, synthesized otherwise)
	Name      string // Optional human-readable label
	SeqID     string // Chromosome or scaffold name
	Source    string // Annotation source (column 2)
	Type      string // Feature type (gene, mRNA, exon, CDS, ...)
	Start     int64  // 1-based, inclusive
	End       int64  // 1-based, inclusive, End >= Start
	Strand    int8   // +1, -1, or 0 when unknown
	Score     *float64
	Phase     int // CDS reading-frame offset 0/1/2, -1 when absent

	Attributes Attributes // Ordered tag -> values multimap from column 9
	ParentIDs  []string   // Declared parent identifiers, in declaration order
	Children   []*Feature // Attached children, in attachment order

	// Autogenerated marks ancestors synthesized from subordinate records
	// (GTF input with no explicit gene/transcript lines). Cleared when a
	// genuine record for the same identifier arrives.
	Autogenerated bool
}

// IsForwardStrand returns true if the feature is on the forward strand.
func (f *Feature) IsForwardStrand() bool {
	return f.Strand == StrandForward
}

// IsReverseStrand returns true if the feature is on the reverse strand.
func (f *Feature) IsReverseStrand() bool {
	return f.Strand == StrandReverse
}

// Length returns the span length in bases.
func (f *Feature) Length() int64 {
	return f.End - f.Start + 1
}

// Contains returns true if the given position is within the feature boundaries.
func (f *Feature) Contains(pos int64) bool {
	return pos >= f.Start && pos <= f.End
}

// Overlaps returns true if the two features share a sequence and their
// spans intersect.
func (f *Feature) Overlaps(o *Feature) bool {
	return f.SeqID == o.SeqID && f.Start <= o.End && o.Start <= f.End
}

// AddChild attaches a child feature. A child already present is not attached
// twice; a multiply-parented child is held by each resolving parent as the
// same shared pointer.
func (f *Feature) AddChild(c *Feature) {
	for _, existing := range f.Children {
		if existing == c {
			return
		}
	}
	f.Children = append(f.Children, c)
}

// Expand grows the feature span to cover the given child. Used to keep an
// autogenerated ancestor's span equal to the union of its children's spans.
func (f *Feature) Expand(c *Feature) {
	if c.Start < f.Start {
		f.Start = c.Start
	}
	if c.End > f.End {
		f.End = c.End
	}
}

// Walk visits the feature and every descendant depth-first. A child attached
// under several parents is visited once.
func (f *Feature) Walk(visit func(*Feature)) {
	seen := make(map[*Feature]bool)
	f.walk(visit, seen)
}

func (f *Feature) walk(visit func(*Feature), seen map[*Feature]bool) {
	if seen[f] {
		return
	}
	seen[f] = true
	visit(f)
	for _, c := range f.Children {
		c.walk(visit, seen)
	}
}

// updateFrom overwrites the placeholder fields of an autogenerated feature
// with values from a genuine record for the same identifier, and clears the
// Autogenerated flag. Children and identifier are kept.
func (f *Feature) updateFrom(src *Feature) {
	f.SeqID = src.SeqID
	f.Source = src.Source
	f.Type = src.Type
	f.Start = src.Start
	f.End = src.End
	f.Strand = src.Strand
	f.Score = src.Score
	f.Phase = src.Phase
	if src.Name != "" {
		f.Name = src.Name
	}
	for _, a := range src.Attributes {
		f.Attributes.Add(a.Tag, a.Values...)
	}
	f.Autogenerated = false
}
