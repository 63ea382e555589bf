package codec

import (
	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/geoknn/model"
)

// GoJSON encodes records with github.com/goccy/go-json, which avoids most
// of the reflection cost of encoding/json on large edge lists.
type GoJSON struct{}

// Name returns "go-json".
func (GoJSON) Name() string { return "go-json" }

// AppendEdge implements Codec.
func (GoJSON) AppendEdge(dst []byte, e model.Edge) ([]byte, error) {
	b, err := gojson.Marshal(e)
	if err != nil {
		return dst, err
	}
	return append(dst, b...), nil
}

// DecodeEdge implements Codec.
func (GoJSON) DecodeEdge(record []byte) (model.Edge, error) {
	var e model.Edge
	if err := gojson.Unmarshal(record, &e); err != nil {
		return model.Edge{}, err
	}
	return checkRecord(e)
}
