package gff

import "strings"

// genericConverter handles loose GFF: semicolon-separated "tag value" pairs
// with no reserved keys and no parent semantics. Used as a fallback when
// neither the explicit-ID nor the implicit-ID dialect confidently applies;
// it produces flat, unparented features.
type genericConverter struct {
	p *Parser
}

func (c *genericConverter) Convert(fields []string) (*Feature, error) {
	f, err := c.p.newBaseFeature(fields)
	if err != nil {
		return nil, err
	}

	if !c.p.opts.Simplify {
		for _, part := range strings.Split(fields[8], ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			tag, value, ok := strings.Cut(part, " ")
			if !ok {
				// A bare token still carries information, e.g. a group name.
				f.Attributes.Add("Group", part)
				continue
			}
			f.Attributes.Add(tag, strings.Trim(strings.TrimSpace(value), `"`))
		}
	}

	f.PrimaryID = c.p.nextID(f.Type)
	return f, nil
}
