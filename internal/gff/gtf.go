package gff

import "strings"

// Grouping keys of the implicit-ID dialect.
const (
	gtfGeneKey       = "gene_id"
	gtfTranscriptKey = "transcript_id"
)

// gtfConverter handles the implicit-ID dialect: semicolon-separated
// key "value" pairs grouped into genes and transcripts by the gene_id and
// transcript_id keys. Ancestors never declared by the file are synthesized
// on first reference and reconciled in place if a genuine record arrives.
type gtfConverter struct {
	p *Parser
}

func (c *gtfConverter) Convert(fields []string) (*Feature, error) {
	f, err := c.p.newBaseFeature(fields)
	if err != nil {
		return nil, err
	}

	attrs := c.parseAttributes(fields[8])
	if !c.p.opts.Simplify {
		f.Attributes = attrs
	}

	geneID := attrs.Get(gtfGeneKey)
	txID := attrs.Get(gtfTranscriptKey)
	if geneID == "" && txID == "" {
		// No grouping key at all: return the record unparented as-is.
		f.PrimaryID = c.p.nextID(f.Type)
		return f, nil
	}

	switch {
	case geneTypeRE.MatchString(f.Type):
		return c.convertGene(f, geneID, attrs)
	case transcriptTypeRE.MatchString(f.Type):
		return c.convertTranscript(f, geneID, txID, attrs)
	default:
		// Subordinate types (exon, CDS, UTR, codons) and anything else
		// grouped under a transcript.
		f.PrimaryID = c.p.nextID(f.Type)
		switch {
		case txID != "":
			f.ParentIDs = []string{txID}
			c.ensureTranscript(txID, geneID, attrs, f)
		case geneID != "" && c.p.opts.IncludeGene:
			f.ParentIDs = []string{geneID}
			c.ensureGene(geneID, attrs, f)
		}
		return f, nil
	}
}

// convertGene handles an explicit gene-level record. When it matches an
// ancestor synthesized earlier from subordinate records, the placeholder is
// updated in place instead of creating a duplicate.
func (c *gtfConverter) convertGene(f *Feature, geneID string, attrs Attributes) (*Feature, error) {
	f.PrimaryID = geneID
	if f.PrimaryID == "" {
		f.PrimaryID = c.p.nextID(f.Type)
	}
	f.Name = attrs.Get("gene_name")

	if g := c.p.registry.Lookup(f.PrimaryID, geneTypeRE); g != nil && g.Autogenerated {
		g.updateFrom(f)
		return nil, nil
	}
	return f, nil
}

// convertTranscript handles an explicit transcript-level record.
func (c *gtfConverter) convertTranscript(f *Feature, geneID, txID string, attrs Attributes) (*Feature, error) {
	f.PrimaryID = txID
	if f.PrimaryID == "" {
		f.PrimaryID = c.p.nextID(f.Type)
	}
	f.Name = attrs.Get("transcript_name")
	if c.p.opts.IncludeGene && geneID != "" {
		f.ParentIDs = []string{geneID}
		c.ensureGene(geneID, attrs, f)
	}

	if t := c.p.registry.Lookup(f.PrimaryID, transcriptTypeRE); t != nil && t.Autogenerated {
		t.updateFrom(f)
		// An autogenerated gene must keep covering the corrected span.
		if len(t.ParentIDs) > 0 {
			if g := c.p.registry.Resolve(t.ParentIDs[0], geneTypeRE, t); g != nil && g.Autogenerated {
				g.Expand(t)
			}
		}
		return nil, nil
	}
	return f, nil
}

// ensureTranscript synthesizes a transcript ancestor on first reference,
// seeding its span from the referencing record.
func (c *gtfConverter) ensureTranscript(txID, geneID string, attrs Attributes, seed *Feature) {
	if c.p.registry.Lookup(txID, parentCapableRE) != nil {
		return
	}
	t := c.synthesize("transcript", txID, attrs.Get("transcript_name"), seed)
	if c.p.opts.IncludeGene && geneID != "" {
		t.ParentIDs = []string{geneID}
		c.ensureGene(geneID, attrs, seed)
	}
	c.p.asm.Process(t)
}

// ensureGene synthesizes a gene ancestor on first reference.
func (c *gtfConverter) ensureGene(geneID string, attrs Attributes, seed *Feature) {
	if c.p.registry.Lookup(geneID, parentCapableRE) != nil {
		return
	}
	g := c.synthesize("gene", geneID, attrs.Get("gene_name"), seed)
	c.p.asm.Process(g)
}

func (c *gtfConverter) synthesize(typ, id, name string, seed *Feature) *Feature {
	f := c.p.opts.NewFeature()
	f.PrimaryID = id
	f.Name = name
	f.SeqID = seed.SeqID
	f.Source = seed.Source
	f.Type = typ
	f.Start = seed.Start
	f.End = seed.End
	f.Strand = seed.Strand
	f.Phase = -1
	f.Autogenerated = true
	return f
}

// parseAttributes splits the column-9 text into key "value" pairs. A
// repeated key accumulates a multi-value list rather than overwriting.
func (c *gtfConverter) parseAttributes(s string) Attributes {
	var attrs Attributes
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, " ")
		if !ok {
			c.p.warnf("attribute pair %q has no value, skipped", part)
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		attrs.Add(key, value)
	}
	return attrs
}
