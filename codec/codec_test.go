package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geoknn/model"
)

var codecs = []Codec{JSON{}, GoJSON{}}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json", "GoJSON"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Contains(t, []string{"json", "go-json"}, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
	assert.Equal(t, "go-json", Default.Name())
}

func TestAppendEdge(t *testing.T) {
	e := model.Edge{Source: "12", Target: "7", Distance: 111.19492664455873}

	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			dst := []byte("prefix:")
			out, err := c.AppendEdge(dst, e)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(string(out), "prefix:"))
			assert.JSONEq(t, `{"source":"12","target":"7","distance":111.19492664455873}`, string(out[len("prefix:"):]))

			back, err := c.DecodeEdge(out[len("prefix:"):])
			require.NoError(t, err)
			assert.Equal(t, e, back)
		})
	}
}

func TestDecodeEdgeErrors(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			_, err := c.DecodeEdge([]byte(`{"source":"1","distance":2}`))
			assert.ErrorIs(t, err, ErrIncompleteRecord)

			_, err = c.DecodeEdge([]byte(`{"source":`))
			assert.Error(t, err)
		})
	}
}

func TestDecodeLines(t *testing.T) {
	in := `{"source":"A","target":"B","distance":1.5}

{"source":"B","target":"A","distance":1.5}
`
	edges, err := DecodeLines(strings.NewReader(in), GoJSON{})
	require.NoError(t, err)
	assert.Equal(t, []model.Edge{
		{Source: "A", Target: "B", Distance: 1.5},
		{Source: "B", Target: "A", Distance: 1.5},
	}, edges)

	_, err = DecodeLines(strings.NewReader("{\"source\":\"A\",\"target\":\"B\"}\nnot json\n"), JSON{})
	assert.ErrorContains(t, err, "line 2")
}
