package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/hupe1980/geoknn/codec"
	"github.com/hupe1980/geoknn/internal/compress"
	"github.com/hupe1980/geoknn/model"
)

// EdgeHeader is the header row of CSV edge lists.
var EdgeHeader = []string{"SourceNode", "TargetNode", "Distance"}

// Format is an edge list encoding.
type Format int

const (
	// FormatCSV writes a header row and one SourceNode,TargetNode,Distance row per edge.
	FormatCSV Format = iota
	// FormatJSONL writes one {"source","target","distance"} object per line.
	FormatJSONL
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSONL:
		return "jsonl"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// ParseFormat resolves a format by name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	default:
		return 0, fmt.Errorf("unknown edge format %q", name)
	}
}

// FormatFromPath infers the format from p's extension, looking through a
// trailing compression extension. Unknown extensions map to CSV.
func FormatFromPath(p string) Format {
	switch strings.ToLower(path.Ext(compress.TrimExt(p))) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	default:
		return FormatCSV
	}
}

// WriterOption configures an EdgeWriter.
type WriterOption func(*EdgeWriter)

// WithCodec sets the codec used for JSON Lines. Default: codec.Default.
func WithCodec(c codec.Codec) WriterOption {
	return func(w *EdgeWriter) {
		if c != nil {
			w.codec = c
		}
	}
}

// EdgeWriter streams edges in a tabular format.
// It is not safe for concurrent use.
type EdgeWriter struct {
	format Format
	codec  codec.Codec
	bw     *bufio.Writer
	cw     *csv.Writer
	rec    []string
	line   []byte
	count  int
}

// NewEdgeWriter creates a writer and, for CSV, emits the header row.
// Call Flush when done.
func NewEdgeWriter(w io.Writer, format Format, opts ...WriterOption) (*EdgeWriter, error) {
	ew := &EdgeWriter{
		format: format,
		codec:  codec.Default,
	}
	for _, fn := range opts {
		fn(ew)
	}

	switch format {
	case FormatCSV:
		ew.cw = csv.NewWriter(w)
		ew.rec = make([]string, len(EdgeHeader))
		if err := ew.cw.Write(EdgeHeader); err != nil {
			return nil, err
		}
	case FormatJSONL:
		ew.bw = bufio.NewWriter(w)
	default:
		return nil, fmt.Errorf("table: unsupported format %v", format)
	}
	return ew, nil
}

// Write appends one edge.
func (w *EdgeWriter) Write(e model.Edge) error {
	switch w.format {
	case FormatCSV:
		w.rec[0] = e.Source
		w.rec[1] = e.Target
		w.rec[2] = FormatDistance(e.Distance)
		if err := w.cw.Write(w.rec); err != nil {
			return err
		}
	case FormatJSONL:
		line, err := w.codec.AppendEdge(w.line[:0], e)
		if err != nil {
			return fmt.Errorf("table: encode edge %v: %w", e, err)
		}
		w.line = append(line, '\n')
		if _, err := w.bw.Write(w.line); err != nil {
			return err
		}
	}
	w.count++
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *EdgeWriter) Flush() error {
	if w.cw != nil {
		w.cw.Flush()
		return w.cw.Error()
	}
	return w.bw.Flush()
}

// Count returns the number of edges written so far.
func (w *EdgeWriter) Count() int { return w.count }

// WriteEdges writes all edges to w in the given format.
func WriteEdges(w io.Writer, edges []model.Edge, format Format, opts ...WriterOption) error {
	ew, err := NewEdgeWriter(w, format, opts...)
	if err != nil {
		return err
	}
	for _, e := range edges {
		if err := ew.Write(e); err != nil {
			return err
		}
	}
	return ew.Flush()
}

// FormatDistance renders a distance with the fewest digits that parse back
// to the same float64.
func FormatDistance(d float64) string {
	return strconv.FormatFloat(d, 'g', -1, 64)
}

// ReadEdgesJSONL parses a JSON Lines edge list written by EdgeWriter.
func ReadEdgesJSONL(r io.Reader, c codec.Codec) ([]model.Edge, error) {
	if c == nil {
		c = codec.Default
	}
	return codec.DecodeLines(r, c)
}

// ReadEdges parses a CSV edge list written by EdgeWriter.
func ReadEdges(r io.Reader) ([]model.Edge, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(EdgeHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	for i, name := range EdgeHeader {
		if header[i] != name {
			return nil, fmt.Errorf("table: unexpected edge header %v", header)
		}
	}

	var edges []model.Edge
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return edges, nil
		}
		if err != nil {
			return nil, err
		}
		d, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("table: edge distance %q: %w", rec[2], err)
		}
		edges = append(edges, model.Edge{Source: rec[0], Target: rec[1], Distance: d})
	}
}
