package testutils

import "github.com/argus-labs/world-engine/keeper/pkg/assert"

// Gen enumerates every combination of the choices a test makes, so a test body written as
//
//	for g := NewGen(); !g.Done(); {
//		state := Pick(g, states)
//		late := g.Bool()
//		...
//	}
//
// runs once per (state, late) pair. Each iteration replays the previous choice sequence and
// bumps the rightmost choice that has room left, zeroing the choices after it.
// See <https://matklad.github.io/2021/11/07/generate-all-the-things.html>.
type Gen struct {
	started bool
	v       [32]struct{ value, bound uint32 }
	p       int
	pMax    int
}

// NewGen creates a new exhaustive generator.
func NewGen() *Gen {
	return &Gen{
		started: false,
		v:       [32]struct{ value, bound uint32 }{},
		p:       0,
		pMax:    0,
	}
}

// Done returns true when all combinations have been exhausted.
func (g *Gen) Done() bool {
	if !g.started {
		g.started = true
		return false
	}
	i := g.pMax
	for i > 0 {
		i--
		if g.v[i].value < g.v[i].bound {
			g.v[i].value++
			g.pMax = i + 1
			g.p = 0
			return false
		}
	}
	return true
}

func (g *Gen) gen(bound uint32) uint32 {
	assert.That(g.p < len(g.v), "exhaustigen: exceeded maximum depth of 32")
	if g.p == g.pMax {
		g.v[g.p] = struct{ value, bound uint32 }{value: 0, bound: 0}
		g.pMax++
	}
	g.p++
	g.v[g.p-1].bound = bound
	return g.v[g.p-1].value
}

// Intn returns an int in range [0, bound] (inclusive).
func (g *Gen) Intn(bound int) int {
	return int(g.gen(uint32(bound))) //nolint:gosec // bound is expected to be small in tests
}

// Index returns a valid index into a slice of the given length.
func (g *Gen) Index(length int) int {
	assert.That(length > 0, "exhaustigen: empty slice")
	return g.Intn(length - 1)
}

// Bool returns an exhaustive boolean value.
func (g *Gen) Bool() bool {
	return g.Intn(1) == 1
}

// Pick returns an element from the slice.
func Pick[T any](g *Gen, slice []T) T {
	return slice[g.Index(len(slice))]
}

// Around returns base shifted by one of the deltas, clamped at zero. It is handy for probing
// deadlines: Around(g, deadline, -1, 0, 1) visits just before, at and just after.
func Around(g *Gen, base uint64, deltas ...int64) uint64 {
	d := Pick(g, deltas)
	if d < 0 {
		if uint64(-d) > base {
			return 0
		}
		return base - uint64(-d)
	}
	return base + uint64(d)
}
