package gff

// assembler attaches converted features to their parents one at a time, in
// arrival order, and maintains the ordered top-level list, the duplicate
// identifier report, and the running per-sequence coordinate maxima.
type assembler struct {
	registry   *Registry
	dialect    Dialect
	topLevel   []*Feature
	seqMax     map[string]int64
	duplicates map[string]int
}

func newAssembler(registry *Registry) *assembler {
	return &assembler{
		registry:   registry,
		seqMax:     make(map[string]int64),
		duplicates: make(map[string]int),
	}
}

// Process routes one feature. Parent-capable features and features without
// parent references are registered as resolution candidates; parentless
// features become top-level roots; everything with parent references is
// attached where resolution succeeds and orphaned where it fails.
func (a *assembler) Process(f *Feature) {
	if parentCapableRE.MatchString(f.Type) || len(f.ParentIDs) == 0 {
		if n := a.registry.Register(f); n > 1 {
			a.duplicates[f.PrimaryID] = n - 1
		}
	}

	if len(f.ParentIDs) == 0 {
		a.topLevel = append(a.topLevel, f)
		if f.End > a.seqMax[f.SeqID] {
			a.seqMax[f.SeqID] = f.End
		}
		return
	}

	var unresolved []string
	for _, id := range f.ParentIDs {
		parent := a.registry.Resolve(id, nil, f)
		if parent == nil {
			unresolved = append(unresolved, id)
			continue
		}
		a.attach(parent, f)
	}
	if len(unresolved) > 0 {
		a.registry.Orphan(f, unresolved...)
	}
}

// attach links a child under a resolved parent. Only the implicit-ID
// dialect permits ancestor boundary correction: a synthesized parent grows
// to cover the child, and the correction cascades exactly one level further
// to a synthesized grandparent, matching the gene -> transcript -> exon
// depth the dialect assumes.
func (a *assembler) attach(parent, child *Feature) {
	parent.AddChild(child)

	if a.dialect != DialectGTF || !parent.Autogenerated {
		return
	}
	parent.Expand(child)
	if len(parent.ParentIDs) == 0 {
		return
	}
	if gp := a.registry.Resolve(parent.ParentIDs[0], nil, parent); gp != nil && gp.Autogenerated {
		gp.Expand(parent)
	}
}

// Reconcile drains the orphanage as far as currently possible.
func (a *assembler) Reconcile() {
	a.registry.Reconcile()
}
