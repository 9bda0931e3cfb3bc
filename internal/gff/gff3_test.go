package gff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convertGFF3(t *testing.T, opts Options, raw string) *Feature {
	t.Helper()
	ln, err := classifyLine(raw)
	require.NoError(t, err)
	require.Equal(t, LineData, ln.Kind)

	c := &gff3Converter{p: New(opts)}
	f, err := c.Convert(ln.Fields)
	require.NoError(t, err)
	require.NotNil(t, f)
	return f
}

func TestGFF3Convert_BaseColumns(t *testing.T) {
	f := convertGFF3(t, DefaultOptions(),
		"chr2\tensembl\tmRNA\t1000\t2000\t3.5\t-\t1\tID=m1;Name=alpha")

	assert.Equal(t, "chr2", f.SeqID)
	assert.Equal(t, "ensembl", f.Source)
	assert.Equal(t, "mRNA", f.Type)
	assert.Equal(t, int64(1000), f.Start)
	assert.Equal(t, int64(2000), f.End)
	require.NotNil(t, f.Score)
	assert.Equal(t, 3.5, *f.Score)
	assert.True(t, f.IsReverseStrand())
	assert.Equal(t, 1, f.Phase)
	assert.Equal(t, "m1", f.PrimaryID)
	assert.Equal(t, "alpha", f.Name)
}

func TestGFF3Convert_AbsentScoreAndPhase(t *testing.T) {
	f := convertGFF3(t, DefaultOptions(),
		"chr1\thavana\tgene\t100\t500\t.\t.\t.\tID=g1")

	assert.Nil(t, f.Score)
	assert.Equal(t, -1, f.Phase)
	assert.Equal(t, StrandUnknown, f.Strand)
}

func TestGFF3Convert_CoordinateErrors(t *testing.T) {
	p := New(DefaultOptions())
	c := &gff3Converter{p: p}

	for _, raw := range []string{
		"chr1\tx\tgene\tabc\t500\t.\t+\t.\tID=g1",
		"chr1\tx\tgene\t100\txyz\t.\t+\t.\tID=g1",
		"chr1\tx\tgene\t500\t100\t.\t+\t.\tID=g1",
	} {
		ln, err := classifyLine(raw)
		require.NoError(t, err)
		_, err = c.Convert(ln.Fields)
		assert.Error(t, err, "record %q must be rejected", raw)
	}
}

func TestGFF3Convert_MultiValuedAndEscaped(t *testing.T) {
	f := convertGFF3(t, DefaultOptions(),
		"chr1\thavana\tmRNA\t100\t500\t.\t+\t.\tID=m1;Name=My%3BName;Parent=g1,g2;Dbxref=GeneID:1,HGNC:2;note=a+b")

	assert.Equal(t, "My;Name", f.Name)
	assert.Equal(t, []string{"g1", "g2"}, f.ParentIDs)
	assert.Equal(t, []string{"GeneID:1", "HGNC:2"}, f.Attributes.Values("Dbxref"))
	assert.Equal(t, "a b", f.Attributes.Get("note"))
}

func TestGFF3Convert_SynthesizedIDs(t *testing.T) {
	p := New(DefaultOptions())
	c := &gff3Converter{p: p}

	ids := make([]string, 0, 3)
	for _, raw := range []string{
		"chr1\tx\texon\t100\t200\t.\t+\t.\tParent=m1",
		"chr1\tx\texon\t300\t400\t.\t+\t.\tParent=m1",
		"chr1\tx\tmatch\t300\t400\t.\t+\t.\tnote=x",
	} {
		ln, err := classifyLine(raw)
		require.NoError(t, err)
		f, err := c.Convert(ln.Fields)
		require.NoError(t, err)
		ids = append(ids, f.PrimaryID)
	}
	assert.Equal(t, []string{"exon.1", "exon.2", "match.1"}, ids,
		"counters are per type and per parser instance")
}

func TestGFF3Convert_Simplify(t *testing.T) {
	opts := DefaultOptions()
	opts.Simplify = true
	f := convertGFF3(t, opts,
		"chr1\thavana\tmRNA\t100\t500\t.\t+\t.\tID=m1;Name=alpha;Parent=g1;biotype=protein_coding")

	assert.Equal(t, "m1", f.PrimaryID)
	assert.Equal(t, "alpha", f.Name)
	assert.Equal(t, []string{"g1"}, f.ParentIDs)
	assert.Empty(t, f.Attributes, "simplify keeps only identity, name, parentage")
}

func TestGFF3Convert_SkipsBadPairs(t *testing.T) {
	f := convertGFF3(t, DefaultOptions(),
		"chr1\thavana\tgene\t100\t500\t.\t+\t.\tID=g1;garbagepair;note=kept")

	assert.Equal(t, "g1", f.PrimaryID)
	assert.Equal(t, "kept", f.Attributes.Get("note"))
	assert.False(t, f.Attributes.Has("garbagepair"))
}

func TestGenericConvert(t *testing.T) {
	p := New(DefaultOptions())
	c := &genericConverter{p: p}

	ln, err := classifyLine("chr1\tblat\texon\t200\t300\t0.9\t+\t.\tSequence probe1; alignment chained")
	require.NoError(t, err)
	f, err := c.Convert(ln.Fields)
	require.NoError(t, err)

	assert.Equal(t, "exon.1", f.PrimaryID)
	assert.Empty(t, f.ParentIDs, "generic dialect has no parent semantics")
	assert.Equal(t, "probe1", f.Attributes.Get("Sequence"))
	assert.Equal(t, "chained", f.Attributes.Get("alignment"))
}

func TestAttributes_Multimap(t *testing.T) {
	var a Attributes
	a.Add("tag", "one")
	a.Add("other", "x")
	a.Add("tag", "two")

	assert.Equal(t, "one", a.Get("tag"))
	assert.Equal(t, []string{"one", "two"}, a.Values("tag"))
	assert.True(t, a.Has("other"))
	assert.False(t, a.Has("absent"))
	assert.Len(t, a, 2, "repeated tag accumulates, does not duplicate entries")
}

func TestFeatureWalk_SharedChildVisitedOnce(t *testing.T) {
	m1 := feat("m1", "mRNA", 100, 900)
	m2 := feat("m2", "mRNA", 100, 900)
	e := feat("e1", "exon", 150, 250)
	m1.AddChild(e)
	m2.AddChild(e)

	root := feat("g1", "gene", 100, 900)
	root.AddChild(m1)
	root.AddChild(m2)

	var visited []string
	root.Walk(func(f *Feature) { visited = append(visited, f.PrimaryID) })
	assert.Equal(t, []string{"g1", "m1", "e1", "m2"}, visited)
}

func TestFeatureAddChild_NoDuplicates(t *testing.T) {
	parent := feat("g1", "gene", 100, 500)
	child := feat("m1", "mRNA", 150, 450)
	parent.AddChild(child)
	parent.AddChild(child)
	assert.Len(t, parent.Children, 1)
}

func TestFeatureExpand(t *testing.T) {
	parent := feat("t1", "transcript", 200, 300)
	parent.Expand(feat("e1", "exon", 100, 250))
	assert.Equal(t, int64(100), parent.Start)
	assert.Equal(t, int64(300), parent.End)

	parent.Expand(feat("e2", "exon", 250, 400))
	assert.Equal(t, int64(100), parent.Start)
	assert.Equal(t, int64(400), parent.End)
}

func TestUnescape_RoundTripThroughAttributeText(t *testing.T) {
	name := "weird; name=with, 100% trouble"
	raw := strings.Join([]string{
		"chr1", "x", "gene", "1", "10", ".", "+", ".",
		"ID=g1;Name=" + Escape(name),
	}, "\t")
	f := convertGFF3(t, DefaultOptions(), raw)
	assert.Equal(t, name, f.Name)
}
