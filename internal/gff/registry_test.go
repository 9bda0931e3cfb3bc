package gff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feat(id, typ string, start, end int64) *Feature {
	return &Feature{
		PrimaryID: id,
		SeqID:     "chr1",
		Type:      typ,
		Start:     start,
		End:       end,
		Strand:    StrandForward,
		Phase:     -1,
	}
}

func TestRegistry_RegisterCounts(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, 1, r.Register(feat("g1", "gene", 100, 500)))
	// Same identifier, same type: true duplicate signal.
	assert.Equal(t, 2, r.Register(feat("g1", "gene", 600, 900)))
	assert.Equal(t, 3, r.Register(feat("g1", "gene", 1000, 1200)))
	// Same identifier, different type: benign reuse.
	assert.Equal(t, 1, r.Register(feat("g1", "mRNA", 100, 500)))
}

func TestRegistry_RegisterNeverOverwrites(t *testing.T) {
	r := NewRegistry()
	first := feat("x", "gene", 100, 500)
	second := feat("x", "gene", 600, 900)
	r.Register(first)
	r.Register(second)

	assert.Same(t, first, r.Lookup("x", nil), "first registration stays first in the slot")
	assert.Equal(t, 2, len(r.slots["x"]))
}

func TestRegistry_ResolveSingleUnconditional(t *testing.T) {
	r := NewRegistry()
	parent := feat("g1", "gene", 100, 500)
	r.Register(parent)

	// A single-member slot resolves even without overlap.
	child := feat("c1", "mRNA", 9000, 9500)
	assert.Same(t, parent, r.Resolve("g1", nil, child))
}

func TestRegistry_ResolveGroupByOverlap(t *testing.T) {
	r := NewRegistry()
	left := feat("e1", "exon", 100, 200)
	right := feat("e1", "exon", 500, 600)
	r.Register(left)
	r.Register(right)

	assert.Same(t, left, r.Resolve("e1", nil, feat("c1", "CDS", 120, 180)))
	assert.Same(t, right, r.Resolve("e1", nil, feat("c2", "CDS", 520, 580)))
	assert.Nil(t, r.Resolve("e1", nil, feat("c3", "CDS", 900, 950)), "no overlap, resolution fails")
}

func TestRegistry_ResolveGroupByTypePattern(t *testing.T) {
	r := NewRegistry()
	gene := feat("x", "gene", 100, 500)
	tx := feat("x", "transcript", 100, 500)
	r.Register(gene)
	r.Register(tx)

	child := feat("c1", "exon", 150, 250)
	assert.Same(t, tx, r.Resolve("x", transcriptTypeRE, child))
	assert.Same(t, gene, r.Resolve("x", geneTypeRE, child))
}

func TestRegistry_ResolveMissing(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Resolve("nope", nil, feat("c1", "exon", 1, 10)))
}

func TestRegistry_ReconcileAttachesLateParents(t *testing.T) {
	r := NewRegistry()
	child := feat("m1", "mRNA", 150, 450)
	child.ParentIDs = []string{"g1"}
	r.Orphan(child, "g1")
	require.Len(t, r.Orphans(), 1)

	// Reconcile before the parent exists: orphan stays queued.
	r.Reconcile()
	require.Len(t, r.Orphans(), 1)

	parent := feat("g1", "gene", 100, 500)
	r.Register(parent)
	r.Reconcile()

	assert.Empty(t, r.Orphans())
	require.Len(t, parent.Children, 1)
	assert.Same(t, child, parent.Children[0])

	// Idempotent: another pass changes nothing.
	r.Reconcile()
	assert.Len(t, parent.Children, 1)
}

func TestRegistry_OrphanAccumulatesReferences(t *testing.T) {
	r := NewRegistry()
	child := feat("c1", "exon", 100, 200)
	r.Orphan(child, "p1")
	r.Orphan(child, "p2")

	require.Len(t, r.Orphans(), 1, "same feature queued once")
	assert.Equal(t, []string{"p1", "p2"}, r.orphans[0].pending)
}
