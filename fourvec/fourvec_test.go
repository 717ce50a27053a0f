package fourvec_test

import (
	"math"
	"testing"

	"github.com/js-arias/camgen/fourvec"
)

func TestS(t *testing.T) {
	v := fourvec.New(10, 0, 0, 6)
	if got, want := v.S(), 64.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("S() = %v, want %v", got, want)
	}
}

func TestBoostRoundTrip(t *testing.T) {
	ref := fourvec.New(150, 30, 40, 0)
	m := math.Sqrt(ref.S())
	v := fourvec.New(m/2, 0, 0, m/2)
	boosted := fourvec.Boost(v, ref)
	if !boosted.IsFinite() {
		t.Fatal("boosted vector is not finite")
	}
	// boosting the two back-to-back daughters and summing
	// should reproduce ref's energy and momentum.
	other := fourvec.Boost(v.Neg3(), ref)
	sum := fourvec.Add(boosted, other)
	for i := range sum {
		if math.Abs(sum[i]-ref[i]) > 1e-6 {
			t.Fatalf("sum[%d] = %v, want %v", i, sum[i], ref[i])
		}
	}
}

func TestFromSpherical(t *testing.T) {
	v := fourvec.FromSpherical(10, 8, 1, 0)
	if math.Abs(v.PMag()-8) > 1e-9 {
		t.Fatalf("PMag() = %v, want 8", v.PMag())
	}
}
