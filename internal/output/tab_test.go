package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjparnell/gffkit/internal/gff"
)

func sampleTree() *gff.Feature {
	score := 3.5
	gene := &gff.Feature{
		PrimaryID: "g1",
		Name:      "KRAS",
		SeqID:     "chr1",
		Source:    "havana",
		Type:      "gene",
		Start:     100,
		End:       500,
		Strand:    gff.StrandForward,
		Phase:     -1,
	}
	mrna := &gff.Feature{
		PrimaryID: "m1",
		SeqID:     "chr1",
		Source:    "havana",
		Type:      "mRNA",
		Start:     150,
		End:       450,
		Strand:    gff.StrandForward,
		Score:     &score,
		Phase:     -1,
		ParentIDs: []string{"g1"},
	}
	gene.AddChild(mrna)
	return gene
}

func TestTabWriter(t *testing.T) {
	var sb strings.Builder
	tw := NewTabWriter(&sb)

	require.NoError(t, gff.WriteFeatures(tw, []*gff.Feature{sampleTree()}))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "#Primary_ID\tName\tType"))
	assert.Equal(t, "g1\tKRAS\tgene\tchr1\t100\t500\t+\t.\t.\t-", lines[1])
	assert.Equal(t, "m1\t-\tmRNA\tchr1\t150\t450\t+\t3.5\t.\tg1", lines[2])
}
