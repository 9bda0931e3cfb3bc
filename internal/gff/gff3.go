package gff

import "strings"

// gff3Converter handles the explicit-ID dialect: semicolon-separated
// key=value pairs with reserved ID, Name, and Parent keys and
// percent-escaped values.
type gff3Converter struct {
	p *Parser
}

func (c *gff3Converter) Convert(fields []string) (*Feature, error) {
	f, err := c.p.newBaseFeature(fields)
	if err != nil {
		return nil, err
	}

	for _, pair := range strings.Split(fields[8], ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		tag, value, ok := strings.Cut(pair, "=")
		if !ok {
			c.p.warnf("attribute pair %q has no '=' separator, skipped", pair)
			continue
		}
		tag = strings.TrimSpace(tag)
		value = strings.TrimSpace(value)

		switch tag {
		case "ID":
			f.PrimaryID = Unescape(value)
		case "Name":
			f.Name = Unescape(value)
		case "Parent":
			// Each comma-separated element is a distinct parent claim.
			for _, ref := range strings.Split(value, ",") {
				f.ParentIDs = append(f.ParentIDs, Unescape(ref))
			}
		default:
			if c.p.opts.Simplify {
				continue
			}
			values := strings.Split(value, ",")
			for i := range values {
				values[i] = Unescape(values[i])
			}
			f.Attributes.Add(tag, values...)
		}
	}

	if f.PrimaryID == "" {
		f.PrimaryID = c.p.nextID(f.Type)
	}
	return f, nil
}
