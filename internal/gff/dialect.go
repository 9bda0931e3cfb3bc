package gff

import (
	"fmt"
	"regexp"
	"strings"
)

// Dialect identifies one of the three attribute-encoding conventions found
// in nine-column annotation files.
type Dialect int

const (
	// DialectAuto defers dialect selection to detection on the first pull.
	DialectAuto Dialect = iota
	// DialectGFF3 is the explicit-ID convention: key=value;key=value with
	// reserved ID, Name, and Parent keys.
	DialectGFF3
	// DialectGTF is the implicit-ID convention: key "value"; key "value"
	// grouped by gene_id and transcript_id.
	DialectGTF
	// DialectGeneric is loose GFF: independent "tag value" pairs with no
	// reserved keys and no parent semantics.
	DialectGeneric
)

func (d Dialect) String() string {
	switch d {
	case DialectGFF3:
		return "gff3"
	case DialectGTF:
		return "gtf"
	case DialectGeneric:
		return "gff"
	default:
		return "auto"
	}
}

// ParseDialect converts a user-supplied dialect name.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return DialectAuto, nil
	case "gff3":
		return DialectGFF3, nil
	case "gtf", "gtf2", "gff2.5":
		return DialectGTF, nil
	case "gff", "gff1", "gff2":
		return DialectGeneric, nil
	}
	return DialectAuto, fmt.Errorf("unknown dialect %q", s)
}

// Type-token patterns shared by detection, conversion, and assembly.
var (
	recognizedTypeRE = regexp.MustCompile(`(?i)(gene|rna|transcript|exon|cds|utr|codon|chromosome|region|match|segment)`)
	geneTypeRE       = regexp.MustCompile(`(?i)^(gene|pseudogene)$`)
	transcriptTypeRE = regexp.MustCompile(`(?i)(^transcript$|rna$)`)
	parentCapableRE  = regexp.MustCompile(`(?i)(gene|rna|transcript)`)
	exonTypeRE       = regexp.MustCompile(`(?i)^exon$`)
	cdsTypeRE        = regexp.MustCompile(`(?i)^cds$`)
	utrTypeRE        = regexp.MustCompile(`(?i)utr`)
	codonTypeRE      = regexp.MustCompile(`(?i)^(start|stop)_codon$`)
	subordinateRE    = regexp.MustCompile(`(?i)(^exon$|^cds$|utr|codon)`)
)

// Column-9 syntax probes for dialect detection.
var (
	gtfAttrRE  = regexp.MustCompile(`(gene_id|transcript_id) "?[^";]*"?;?`)
	gff3AttrRE = regexp.MustCompile(`(?:^|;)\s*\w+=[^;]+`)
)

// detection is the outcome of sampling a file prefix.
type detection struct {
	dialect Dialect
	types   map[string]bool
	// forceSynthesis is set when the caller asked for gene/transcript
	// materialization but the sample contains only subordinate records, so
	// ancestors must be synthesized from exon/CDS grouping keys.
	forceSynthesis bool
}

// detectDialect inspects the sampled data lines and picks the attribute
// dialect. Detection fails when no recognizable type token appears in the
// sample: the file is not usable annotation and the caller must not parse it.
func detectDialect(sample []Line, wantAncestors bool) (detection, error) {
	det := detection{types: make(map[string]bool)}

	var gtfVotes, gff3Votes int
	recognized := false
	sawAncestor := false
	for _, ln := range sample {
		typ := ln.Fields[2]
		det.types[typ] = true
		if recognizedTypeRE.MatchString(typ) {
			recognized = true
		}
		if geneTypeRE.MatchString(typ) || transcriptTypeRE.MatchString(typ) {
			sawAncestor = true
		}

		attr := ln.Fields[8]
		switch {
		case gtfAttrRE.MatchString(attr):
			gtfVotes++
		case gff3AttrRE.MatchString(attr):
			gff3Votes++
		}
	}

	if len(sample) == 0 || !recognized {
		return det, fmt.Errorf("no recognizable annotation types in file sample")
	}

	switch {
	case gtfVotes > gff3Votes:
		det.dialect = DialectGTF
	case gff3Votes > 0:
		det.dialect = DialectGFF3
	default:
		det.dialect = DialectGeneric
	}

	if wantAncestors && !sawAncestor {
		det.forceSynthesis = true
	}
	return det, nil
}
