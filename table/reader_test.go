package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/geoknn"
	"github.com/hupe1980/geoknn/model"
	"github.com/hupe1980/geoknn/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNodes = `FRANODEID,STATE,x,y,PASSNGR
1,WA,-122.33,47.61,12
2,OR,-122.68,45.52,
3,CA,-122.42,37.77,NaN
4.0,NV,-119.81,39.53,3
5,ID,-116.20,43.62,NA
6,UT,-111.89,40.76,0
`

func TestReadNodes(t *testing.T) {
	nodes, report, err := ReadNodes(strings.NewReader(sampleNodes), DefaultSchema)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "4", "6"}, nodes.IDs())
	assert.Equal(t, model.Coordinate{Lon: -122.33, Lat: 47.61}, nodes[0].Coord)
	assert.Equal(t, model.Coordinate{Lon: -111.89, Lat: 40.76}, nodes[2].Coord)

	assert.Equal(t, 6, report.Rows)
	assert.Equal(t, 3, report.Kept)
	assert.Equal(t, 3, report.DroppedCount())
	assert.Equal(t, []uint32{1, 2, 4}, report.Dropped.ToArray())
}

func TestReadNodesNoFilter(t *testing.T) {
	schema := DefaultSchema
	schema.FilterColumn = ""

	nodes, report, err := ReadNodes(strings.NewReader(sampleNodes), schema)
	require.NoError(t, err)
	assert.Len(t, nodes, 6)
	assert.Zero(t, report.DroppedCount())
}

func TestReadNodesCustomSchema(t *testing.T) {
	in := "\ufeffid;lon;lat\nalpha;10.5;20.25\nbeta;-3;4\n"
	schema := Schema{IDColumn: "id", LonColumn: "lon", LatColumn: "lat"}

	// Semicolon tables are not CSV; a single field per row means no lon column.
	_, _, err := ReadNodes(strings.NewReader(in), schema)
	assert.ErrorIs(t, err, geoknn.ErrInvalidInput)

	in = strings.ReplaceAll(in, ";", ",")
	nodes, _, err := ReadNodes(strings.NewReader(in), schema)
	require.NoError(t, err)
	assert.Equal(t, model.NodeSet{
		model.NewNode("alpha", 10.5, 20.25),
		model.NewNode("beta", -3, 4),
	}, nodes)
}

func TestReadNodesErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		schema Schema
	}{
		{"Empty", "", DefaultSchema},
		{"MissingColumn", "FRANODEID,x,PASSNGR\n1,2,3\n", DefaultSchema},
		{"MissingFilterColumn", "FRANODEID,x,y\n1,2,3\n", DefaultSchema},
		{"BadLon", "FRANODEID,x,y,PASSNGR\n1,east,3,1\n", DefaultSchema},
		{"NaNLat", "FRANODEID,x,y,PASSNGR\n1,2,NaN,1\n", DefaultSchema},
		{"RaggedRow", "FRANODEID,x,y,PASSNGR\n1,2,3\n", DefaultSchema},
		{"IncompleteSchema", "a,b\n", Schema{IDColumn: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, report, err := ReadNodes(strings.NewReader(tt.input), tt.schema)
			require.Error(t, err)
			assert.True(t, errors.Is(err, geoknn.ErrInvalidInput), "got %v", err)
			assert.Nil(t, nodes)
			assert.Nil(t, report)
		})
	}
}

func TestReadNodesDropsBadCoordinatesOnFilteredRows(t *testing.T) {
	// Rows removed by the filter are never parsed.
	in := "FRANODEID,x,y,PASSNGR\n1,??,??,\n2,1,1,5\n"

	nodes, report, err := ReadNodes(strings.NewReader(in), DefaultSchema)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, nodes.IDs())
	assert.True(t, report.Dropped.Contains(0))
}

func TestReadNodesGenerated(t *testing.T) {
	rng := testutil.NewRNG(17)
	all := rng.UniformNodes(500)
	present := rng.SparseMetadata(len(all), 0.3)

	var buf bytes.Buffer
	require.NoError(t, testutil.WriteNodesCSV(&buf, all, present))

	nodes, report, err := ReadNodes(&buf, DefaultSchema)
	require.NoError(t, err)

	var want model.NodeSet
	for i, n := range all {
		if present[i] {
			want = append(want, n)
		} else {
			assert.True(t, report.Dropped.Contains(uint32(i)))
		}
	}
	assert.Equal(t, want, nodes)
	assert.Equal(t, len(all), report.Rows)
	assert.Equal(t, len(want)+report.DroppedCount(), report.Rows)
}

func TestIsNull(t *testing.T) {
	for _, v := range []string{"", " ", "NA", "NaN", "nan", "NULL", "null", "None", "<NA>", "#N/A", "n/a"} {
		assert.True(t, IsNull(v), "%q", v)
	}
	for _, v := range []string{"0", "none", "-", "12", "false"} {
		assert.False(t, IsNull(v), "%q", v)
	}
}

func TestNormalizeID(t *testing.T) {
	tests := map[string]string{
		"12":      "12",
		"12.0":    "12",
		"-7.000":  "-7",
		" 42 ":    "42",
		"12.5":    "12.5",
		"A12.0":   "A12.0",
		".0":      ".0",
		"1e3":     "1e3",
		"NODE-01": "NODE-01",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeID(in), "%q", in)
	}
}
