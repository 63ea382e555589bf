package testutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hupe1980/geoknn/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformNodes(t *testing.T) {
	rng := NewRNG(4711)

	nodes := rng.UniformNodes(64)

	require.Len(t, nodes, 64)
	assert.Equal(t, "0", nodes[0].ID)
	for _, n := range nodes {
		assert.True(t, n.Coord.InRange(), "%v", n.Coord)
	}

	rng.Reset()
	assert.Equal(t, nodes, rng.UniformNodes(64))
}

func TestBoxNodes(t *testing.T) {
	rng := NewRNG(1)

	for _, n := range rng.BoxNodes(32, 5, 6, 45, 46) {
		assert.GreaterOrEqual(t, n.Coord.Lon, 5.0)
		assert.Less(t, n.Coord.Lon, 6.0)
		assert.GreaterOrEqual(t, n.Coord.Lat, 45.0)
		assert.Less(t, n.Coord.Lat, 46.0)
	}
}

func TestClusteredNodes(t *testing.T) {
	rng := NewRNG(7)

	nodes := rng.ClusteredNodes(100, 3, 0.1)
	require.Len(t, nodes, 100)
	for _, n := range nodes {
		assert.True(t, n.Coord.IsFinite())
		assert.LessOrEqual(t, n.Coord.Lat, 90.0)
		assert.GreaterOrEqual(t, n.Coord.Lat, -90.0)
	}
}

func TestSparseMetadata(t *testing.T) {
	rng := NewRNG(3)

	assert.NotContains(t, rng.SparseMetadata(50, 0), false)
	assert.NotContains(t, rng.SparseMetadata(50, 1), true)
}

func TestExactEdges(t *testing.T) {
	nodes := model.NodeSet{
		model.NewNode("A", 0, 0),
		model.NewNode("B", 0, 2),
		model.NewNode("C", 0, 1),
	}

	edges := ExactEdges(nodes, 1)
	require.Len(t, edges, 3)
	assert.Equal(t, "C", edges[0].Target)
	assert.Equal(t, "C", edges[1].Target)
	// C is equidistant from A and B; A comes first.
	assert.Equal(t, "A", edges[2].Target)
}

func TestWriteNodesCSV(t *testing.T) {
	var buf bytes.Buffer
	nodes := model.NodeSet{model.NewNode("1", 1.5, -2), model.NewNode("2", 3, 4)}

	require.NoError(t, WriteNodesCSV(&buf, nodes, []bool{true, false}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"FRANODEID,x,y,PASSNGR", "1,1.5,-2,1", "2,3,4,"}, lines)
}
