package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/repomap-engine/internal/types"
)

func fileRecords(paths ...string) []types.FileRecord {
	out := make([]types.FileRecord, len(paths))
	for i, p := range paths {
		out[i] = types.FileRecord{Path: p, Language: "go"}
	}
	return out
}

func importTag(file, module string) types.Tag {
	return types.Tag{Name: module, Kind: types.TagDef, Category: types.CategoryImport, File: file, Line: 1}
}

func TestBuildResolvesRelativeImports(t *testing.T) {
	files := fileRecords("a.go", "b.go")
	tags := []types.Tag{
		importTag("a.go", "./b"),
		{Name: "Helper", Kind: types.TagDef, Category: types.CategoryFunction, File: "b.go", Line: 3},
		{Name: "Helper", Kind: types.TagRef, Category: types.CategoryOther, File: "a.go", Line: 5},
	}
	g := NewBuilder(nil).Build(files, tags)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "a.go", g.Edges[0].From)
	assert.Equal(t, "b.go", g.Edges[0].To)
	assert.Equal(t, 1, g.Edges[0].Weight)
}

func TestBuildDropsUnresolvedImports(t *testing.T) {
	files := fileRecords("a.go")
	tags := []types.Tag{importTag("a.go", "some/nonexistent/package")}
	g := NewBuilder(nil).Build(files, tags)
	assert.Empty(t, g.Edges)
}

// TestCycleDetectionScenario mirrors spec §8 scenario 3: A→B, B→C, C→A,
// plus D→A. cycles() must return [[A,B,C]]; impact({A}, depth=2) must
// include {A,B,C,D}; risk must reflect the cycle penalty.
func TestCycleDetectionScenario(t *testing.T) {
	files := fileRecords("a.go", "b.go", "c.go", "d.go")
	tags := []types.Tag{
		importTag("a.go", "./b"),
		importTag("b.go", "./c"),
		importTag("c.go", "./a"),
		importTag("d.go", "./a"),
	}
	g := NewBuilder(nil).Build(files, tags)

	cycles := g.Cycles()
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []string{"a.go", "b.go", "c.go"}, cycles[0])

	impact := g.Impact([]string{"a.go"}, 2)
	assert.Subset(t, impact.Affected, []string{"a.go", "b.go", "c.go", "d.go"})
	assert.GreaterOrEqual(t, impact.Risk, 0.2)
	assert.Equal(t, 0.2, impact.CyclePenalty)
}

func TestCentralityIsNormalizedAndBreaksTiesByInDegree(t *testing.T) {
	files := fileRecords("a.go", "b.go", "c.go")
	tags := []types.Tag{
		importTag("a.go", "./c"),
		importTag("b.go", "./c"),
	}
	g := NewBuilder(nil).Build(files, tags)

	scores := g.Centrality(types.DefaultCentralityWeights())
	for _, v := range scores {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	ranked := g.RankByCentrality(types.DefaultCentralityWeights())
	assert.Equal(t, "c.go", ranked[0]) // most incoming edges
}

func TestNoCyclesOnAcyclicGraph(t *testing.T) {
	files := fileRecords("a.go", "b.go")
	tags := []types.Tag{importTag("a.go", "./b")}
	g := NewBuilder(nil).Build(files, tags)
	assert.Empty(t, g.Cycles())
}
