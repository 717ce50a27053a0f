package grid_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/js-arias/camgen/grid"
)

func TestNewGridInvariants(t *testing.T) {
	g := grid.New(grid.Cumulant, 10)
	if g.NumLeaves() != 1 {
		t.Fatalf("NumLeaves() = %d, want 1", g.NumLeaves())
	}
	if math.Abs(g.TotalWidth()-1) > 1e-12 {
		t.Fatalf("TotalWidth() = %v, want 1", g.TotalWidth())
	}
	if math.Abs(g.TotalProbability()-1) > 1e-12 {
		t.Fatalf("TotalProbability() = %v, want 1", g.TotalProbability())
	}
}

func TestSelectWithinUnitInterval(t *testing.T) {
	g := grid.New(grid.Variance, 8)
	src := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		u, jac := g.Select(src)
		if u < 0 || u > 1 {
			t.Fatalf("Select() u = %v, out of [0,1]", u)
		}
		if jac <= 0 {
			t.Fatalf("Select() jacobian = %v, want > 0", jac)
		}
		g.Update(u * u)
	}
}

func TestAdaptSplitsTowardHeavyRegion(t *testing.T) {
	g := grid.New(grid.Cumulant, 16)
	src := rand.New(rand.NewSource(2))

	// Drive many samples, crediting a large contribution whenever the
	// draw lands in the upper half of the interval, to bias the grid
	// into allocating more leaves (and more probability) there.
	for round := 0; round < 6; round++ {
		for i := 0; i < 500; i++ {
			u, _ := g.Select(src)
			contribution := 0.01
			if u > 0.5 {
				contribution = 10
			}
			g.Update(contribution)
		}
		g.Adapt()
		if math.Abs(g.TotalWidth()-1) > 1e-9 {
			t.Fatalf("round %d: TotalWidth() = %v, want 1", round, g.TotalWidth())
		}
		if math.Abs(g.TotalProbability()-1) > 1e-9 {
			t.Fatalf("round %d: TotalProbability() = %v, want 1", round, g.TotalProbability())
		}
		if g.NumLeaves() > 16 {
			t.Fatalf("round %d: NumLeaves() = %d, exceeds cap 16", round, g.NumLeaves())
		}
	}

	var upperWeight, lowerWeight float64
	for _, l := range g.Snapshot() {
		mid := (l.Lo + l.Hi) / 2
		if mid > 0.5 {
			upperWeight += l.Weight
		} else {
			lowerWeight += l.Weight
		}
	}
	if upperWeight <= lowerWeight {
		t.Fatalf("upper weight %v did not exceed lower weight %v after adaptation", upperWeight, lowerWeight)
	}
}

func TestMaxBinsCap(t *testing.T) {
	g := grid.New(grid.Maximum, 3)
	src := rand.New(rand.NewSource(3))
	for round := 0; round < 10; round++ {
		for i := 0; i < 50; i++ {
			u, _ := g.Select(src)
			g.Update(u)
		}
		g.Adapt()
		if g.NumLeaves() > 3 {
			t.Fatalf("round %d: NumLeaves() = %d, exceeds cap 3", round, g.NumLeaves())
		}
	}
}

func TestSnapshotOrderedByLo(t *testing.T) {
	g := grid.New(grid.Cumulant, 8)
	src := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		u, _ := g.Select(src)
		g.Update(u)
	}
	g.Adapt()
	views := g.Snapshot()
	for i := 1; i < len(views); i++ {
		if views[i].Lo < views[i-1].Hi-1e-12 {
			t.Fatalf("leaves not contiguous/ordered: %v then %v", views[i-1], views[i])
		}
	}
}
