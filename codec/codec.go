// Package codec encodes edges as single-line JSON records for JSON Lines
// output.
package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/geoknn/model"
)

// ErrIncompleteRecord is returned when a decoded record lacks an endpoint.
var ErrIncompleteRecord = errors.New("codec: edge record needs source and target")

// Codec turns edges into JSON records and back.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name is the stable name accepted by ByName.
	Name() string
	// AppendEdge appends the record for e to dst, without a trailing newline.
	AppendEdge(dst []byte, e model.Edge) ([]byte, error)
	// DecodeEdge parses a single record.
	DecodeEdge(record []byte) (model.Edge, error)
}

// Default is the codec used for JSON Lines output unless one is configured.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by name, ignoring case.
func ByName(name string) (Codec, bool) {
	switch strings.ToLower(name) {
	case "json":
		return JSON{}, true
	case "go-json", "gojson":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// maxRecordSize bounds one JSON Lines record when decoding.
const maxRecordSize = 1 << 20

// DecodeLines reads one edge per non-blank line of r.
func DecodeLines(r io.Reader, c Codec) ([]model.Edge, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxRecordSize)

	var edges []model.Edge
	for line := 1; sc.Scan(); line++ {
		rec := sc.Bytes()
		if len(bytes.TrimSpace(rec)) == 0 {
			continue
		}
		e, err := c.DecodeEdge(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		edges = append(edges, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return edges, nil
}

func checkRecord(e model.Edge) (model.Edge, error) {
	if e.Source == "" || e.Target == "" {
		return model.Edge{}, ErrIncompleteRecord
	}
	return e, nil
}
