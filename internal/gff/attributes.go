package gff

// Attribute is one tag with its ordered values.
type Attribute struct {
	Tag    string
	Values []string
}

// Attributes is an ordered multimap of attribute tags to values. A repeated
// tag accumulates values under the first occurrence rather than overwriting,
// matching GTF files that emit e.g. several tag "..." pairs per record.
type Attributes []Attribute

// Get returns the first value for a tag, or "" if the tag is absent.
func (a Attributes) Get(tag string) string {
	for _, attr := range a {
		if attr.Tag == tag {
			if len(attr.Values) == 0 {
				return ""
			}
			return attr.Values[0]
		}
	}
	return ""
}

// Values returns all values for a tag, or nil if the tag is absent.
func (a Attributes) Values(tag string) []string {
	for _, attr := range a {
		if attr.Tag == tag {
			return attr.Values
		}
	}
	return nil
}

// Has returns true if the tag is present.
func (a Attributes) Has(tag string) bool {
	for _, attr := range a {
		if attr.Tag == tag {
			return true
		}
	}
	return false
}

// Add appends values for a tag, accumulating onto an existing entry when the
// tag was seen before.
func (a *Attributes) Add(tag string, values ...string) {
	for i := range *a {
		if (*a)[i].Tag == tag {
			(*a)[i].Values = append((*a)[i].Values, values...)
			return
		}
	}
	*a = append(*a, Attribute{Tag: tag, Values: values})
}
