package model_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/js-arias/camgen/model"
)

const testModel = `# camgen particle model
name	pdg	mass	width	charge	spin	color
h0	25	125.0	0.004	0	0	1
W-	-24	80.4	2.1	-1	1	1
mu-	13	0.1057	0	-1	0.5	1
nu_mu	14	0	0	0	0.5	1
`

func TestReadWrite(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "model.tab")
	if err := os.WriteFile(name, []byte(testModel), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := model.Read(name)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got, want := reg.Mass("h0"), 125.0; got != want {
		t.Fatalf("Mass(h0) = %v, want %v", got, want)
	}
	if got, want := reg.Width("W-"), 2.1; got != want {
		t.Fatalf("Width(W-) = %v, want %v", got, want)
	}
	if len(reg.Names()) != 4 {
		t.Fatalf("Names() = %d, want 4", len(reg.Names()))
	}

	out := filepath.Join(dir, "out.tab")
	if err := reg.Write(out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	reg2, err := model.Read(out)
	if err != nil {
		t.Fatalf("Read (round trip): %v", err)
	}
	if reg2.Mass("W-") != reg.Mass("W-") {
		t.Fatalf("round trip mass mismatch")
	}
}

func TestAddSpecies(t *testing.T) {
	reg := model.New()
	reg.Add(model.Species{Name: "h0", Mass: 125, Width: 0.004})
	reg.Add(model.Species{Name: "W-", Mass: 80.4, Width: 2.1})

	if reg.Mass("h0") != 125 {
		t.Fatalf("Mass(h0) = %v, want 125", reg.Mass("h0"))
	}
	if got, ok := reg.Species("nonexistent"); ok {
		t.Fatalf("expected missing species, got %v", got)
	}
	names := reg.Names()
	if len(names) != 2 {
		t.Fatalf("Names() returned %d entries, want 2", len(names))
	}
}

func TestSpeciesIsStable(t *testing.T) {
	stable := model.Species{Name: "mu-", Width: 0}
	if !stable.IsStable() {
		t.Fatal("expected mu- to be treated as stable (negligible width)")
	}
	resonant := model.Species{Name: "W-", Width: 2.1}
	if resonant.IsStable() {
		t.Fatal("expected W- to be unstable")
	}
}

func TestAnti(t *testing.T) {
	if got, want := model.Anti("W-"), "W+"; got != want {
		t.Fatalf("Anti(W-) = %q, want %q", got, want)
	}
	if got, want := model.Anti("mu-"), "mu+"; got != want {
		t.Fatalf("Anti(mu-) = %q, want %q", got, want)
	}
	if got, want := model.Anti("nu_mu"), "nu_mubar"; got != want {
		t.Fatalf("Anti(nu_mu) = %q, want %q", got, want)
	}
}
