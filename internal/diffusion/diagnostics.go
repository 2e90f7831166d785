package diffusion

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"diffuse/internal/core"
)

// Spread returns the mass-weighted mean squared displacement of snap from
// (cx, cy), measured along the shortest toroidal path. A field with zero
// total mass has zero spread.
func Spread(snap core.Snapshot, cx, cy int) float64 {
	w, h := snap.Width(), snap.Height()
	if w == 0 || h == 0 {
		return 0
	}
	vals := snap.Values()
	if sum := snap.Sum(); sum == 0 || math.IsNaN(sum) {
		return 0
	}
	sq := make([]float64, len(vals))
	for y := 0; y < h; y++ {
		dy := torusDistance(y, cy, h)
		for x := 0; x < w; x++ {
			dx := torusDistance(x, cx, w)
			sq[y*w+x] = float64(dx*dx + dy*dy)
		}
	}
	return stat.Mean(sq, vals)
}

func torusDistance(a, b, n int) int {
	d := ((a-b)%n + n) % n
	if d > n-d {
		return n - d
	}
	return d
}

// Converged reports whether the peak value moved by less than tol between
// two consecutive frames.
func Converged(prev, cur core.Snapshot, tol float64) bool {
	if tol <= 0 || prev.Len() == 0 {
		return false
	}
	return math.Abs(cur.Max()-prev.Max()) < tol
}

// Sample is one recorded observation of a running simulation.
type Sample struct {
	Step   int
	Mass   float64
	Max    float64
	Spread float64
}

// History accumulates samples relative to a fixed origin.
type History struct {
	OriginX, OriginY int
	Samples          []Sample
}

// NewHistory creates a history measuring spread around (x, y).
func NewHistory(x, y int) *History {
	return &History{OriginX: x, OriginY: y}
}

// Record appends the current state of sim.
func (h *History) Record(sim *Simulation) Sample {
	snap := sim.CurrentState()
	s := Sample{
		Step:   sim.Steps(),
		Mass:   snap.Sum(),
		Max:    snap.Max(),
		Spread: Spread(snap, h.OriginX, h.OriginY),
	}
	h.Samples = append(h.Samples, s)
	return s
}

// Len returns the number of recorded samples.
func (h *History) Len() int { return len(h.Samples) }
