package codec

import (
	"encoding/json"

	"github.com/hupe1980/geoknn/model"
)

// JSON encodes records with encoding/json.
//
// Use it when output has to match encoding/json byte for byte.
type JSON struct{}

// Name returns "json".
func (JSON) Name() string { return "json" }

// AppendEdge implements Codec.
func (JSON) AppendEdge(dst []byte, e model.Edge) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return dst, err
	}
	return append(dst, b...), nil
}

// DecodeEdge implements Codec.
func (JSON) DecodeEdge(record []byte) (model.Edge, error) {
	var e model.Edge
	if err := json.Unmarshal(record, &e); err != nil {
		return model.Edge{}, err
	}
	return checkRecord(e)
}
