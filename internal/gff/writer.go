package gff

// FeatureWriter is the seam to external tabular collaborators: data-table
// engines, exporters, and stores consume finished feature trees through it.
// The parser core never persists features itself.
type FeatureWriter interface {
	// WriteHeader emits any leading metadata before the first feature.
	WriteHeader() error
	// Write consumes one top-level feature and its subtree.
	Write(f *Feature) error
	// Flush finalizes the output.
	Flush() error
}

// WriteFeatures streams every top-level feature of a completed parse
// through a writer.
func WriteFeatures(w FeatureWriter, features []*Feature) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, f := range features {
		if err := w.Write(f); err != nil {
			return err
		}
	}
	return w.Flush()
}
