package testutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenVisitsEveryCombination(t *testing.T) {
	seen := map[[2]int]bool{}
	for g := NewGen(); !g.Done(); {
		a := g.Intn(2)
		b := 0
		if g.Bool() {
			b = 1
		}
		seen[[2]int{a, b}] = true
	}
	assert.Len(t, seen, 6)
}

func TestAround(t *testing.T) {
	var got []uint64
	for g := NewGen(); !g.Done(); {
		got = append(got, Around(g, 10, -20, -1, 0, 1))
	}
	assert.Equal(t, []uint64{0, 9, 10, 11}, got)
}
