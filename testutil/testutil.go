package testutil

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"slices"
	"strconv"
	"sync"

	"github.com/hupe1980/geoknn/distance"
	"github.com/hupe1980/geoknn/model"
)

// RNG generates reproducible node sets. Methods may be called from
// several goroutines; the sequence is then still seeded but interleaved.
type RNG struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed int64
}

// NewRNG returns a generator seeded with seed.
func NewRNG(seed int64) *RNG {
	return &RNG{rand: rand.New(rand.NewSource(seed)), seed: seed} // nolint gosec
}

// Reset rewinds the generator so the next call repeats the first one.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed)) // nolint gosec
}

// UniformNodes returns n nodes distributed uniformly over the sphere.
// IDs are "0".."n-1".
func (r *RNG) UniformNodes(n int) model.NodeSet {
	r.mu.Lock()
	defer r.mu.Unlock()

	nodes := make(model.NodeSet, n)
	for i := range nodes {
		lon := r.rand.Float64()*360 - 180
		// Inverse-CDF sampling keeps density uniform in area, not in degrees.
		lat := math.Asin(2*r.rand.Float64()-1) * 180 / math.Pi
		nodes[i] = model.NewIntNode(int64(i), lon, lat)
	}
	return nodes
}

// BoxNodes returns n nodes uniform in degrees inside the given bounds.
func (r *RNG) BoxNodes(n int, minLon, maxLon, minLat, maxLat float64) model.NodeSet {
	r.mu.Lock()
	defer r.mu.Unlock()

	nodes := make(model.NodeSet, n)
	for i := range nodes {
		lon := minLon + r.rand.Float64()*(maxLon-minLon)
		lat := minLat + r.rand.Float64()*(maxLat-minLat)
		nodes[i] = model.NewIntNode(int64(i), lon, lat)
	}
	return nodes
}

// ClusteredNodes returns n nodes scattered around `clusters` random centers
// with a gaussian spread given in degrees.
func (r *RNG) ClusteredNodes(n, clusters int, spread float64) model.NodeSet {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := make([]model.Coordinate, clusters)
	for i := range centers {
		centers[i] = model.Coordinate{
			Lon: r.rand.Float64()*300 - 150,
			Lat: r.rand.Float64()*120 - 60,
		}
	}

	nodes := make(model.NodeSet, n)
	for i := range nodes {
		c := centers[r.rand.Intn(clusters)]
		lon := c.Lon + r.rand.NormFloat64()*spread
		lat := math.Max(-90, math.Min(90, c.Lat+r.rand.NormFloat64()*spread))
		nodes[i] = model.NewIntNode(int64(i), lon, lat)
	}
	return nodes
}

// SparseMetadata returns a presence mask where each entry is missing with
// probability missingRate.
func (r *RNG) SparseMetadata(n int, missingRate float64) []bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	present := make([]bool, n)
	for i := range present {
		present[i] = r.rand.Float64() >= missingRate
	}
	return present
}

// ExactEdges computes the k-nearest-neighbor edge list by fully sorting every
// node's candidates with a stable sort. It is the reference the builder is
// checked against.
func ExactEdges(nodes model.NodeSet, k int) []model.Edge {
	type cand struct {
		idx  int
		dist float64
	}

	var edges []model.Edge
	for i, u := range nodes {
		cands := make([]cand, 0, len(nodes)-1)
		for j, v := range nodes {
			if i == j {
				continue
			}
			cands = append(cands, cand{idx: j, dist: distance.Between(u.Coord, v.Coord)})
		}
		slices.SortStableFunc(cands, func(a, b cand) int {
			switch {
			case a.dist < b.dist:
				return -1
			case a.dist > b.dist:
				return 1
			}
			return 0
		})
		for _, c := range cands[:min(k, len(cands))] {
			edges = append(edges, model.Edge{Source: u.ID, Target: nodes[c.idx].ID, Distance: c.dist})
		}
	}
	return edges
}

// WriteNodesCSV renders nodes as a table with the columns FRANODEID, x, y and
// PASSNGR. PASSNGR is left empty for nodes whose present entry is false; a
// nil mask marks every node present.
func WriteNodesCSV(w io.Writer, nodes model.NodeSet, present []bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"FRANODEID", "x", "y", "PASSNGR"}); err != nil {
		return err
	}
	for i, n := range nodes {
		passengers := "1"
		if present != nil && !present[i] {
			passengers = ""
		}
		rec := []string{
			n.ID,
			strconv.FormatFloat(n.Coord.Lon, 'g', -1, 64),
			strconv.FormatFloat(n.Coord.Lat, 'g', -1, 64),
			passengers,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
