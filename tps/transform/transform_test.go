package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cwbudde/algo-tps/tps/trajectory"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func sampleTrace() trajectory.Trace {
	return trajectory.Trace{
		Energy: []float64{1, 2, 3},
		Radius: []float64{0.5, 0.7, 0.9},
		X:      []float64{0.13, 0.08, 0.05},
		Y:      []float64{0.20, 0.10, 0.06},
	}
}

func TestApplyIdentity(t *testing.T) {
	tr := sampleTrace()
	got, err := Apply(tr, Params{Scale: 1.0 / 100})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if diff := cmp.Diff(tr.X, got.X, approx); diff != "" {
		t.Fatalf("x mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(tr.Y, got.Y, approx); diff != "" {
		t.Fatalf("y mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(tr.Energy, got.Energy); diff != "" {
		t.Fatalf("energy mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyScaleAndTranslate(t *testing.T) {
	got, err := Apply(sampleTrace(), Params{Scale: 40, DX: 127, DY: 153})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	// 0.13 m at 40 px/cm is 520 px.
	wantX := []float64{127 + 520, 127 + 320, 127 + 200}
	wantY := []float64{153 + 800, 153 + 400, 153 + 240}
	if diff := cmp.Diff(wantX, got.X, approx); diff != "" {
		t.Fatalf("x mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantY, got.Y, approx); diff != "" {
		t.Fatalf("y mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyRotation(t *testing.T) {
	tr := trajectory.Trace{Energy: []float64{1}, X: []float64{0.01}, Y: []float64{0}}
	got, err := Apply(tr, Params{Scale: 1, RotateDeg: 90})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	// counter-clockwise: +x maps to +y
	if math.Abs(got.X[0]) > 1e-12 || math.Abs(got.Y[0]-1) > 1e-12 {
		t.Fatalf("rotated point = (%v, %v), want (0, 1)", got.X[0], got.Y[0])
	}

	got, err = Apply(sampleTrace(), Params{Scale: 10, RotateDeg: 30})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	src := sampleTrace()
	for i := range src.X {
		r0 := math.Hypot(src.X[i], src.Y[i]) * 1000
		r1 := math.Hypot(got.X[i], got.Y[i])
		if math.Abs(r0-r1) > 1e-9 {
			t.Fatalf("rotation changed length at %d: %v vs %v", i, r1, r0)
		}
	}
}

func TestApplyDoesNotAlias(t *testing.T) {
	tr := sampleTrace()
	got, err := Apply(tr, Params{Scale: 1})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got.Energy[0] = -1
	if tr.Energy[0] != 1 {
		t.Fatal("pixel trace shares energy storage with the physical trace")
	}
}

func TestApplyInvalidScale(t *testing.T) {
	for _, s := range []float64{0, -40, math.NaN(), math.Inf(1)} {
		_, err := Apply(sampleTrace(), Params{Scale: s})
		if !errors.Is(err, ErrInvalidScale) {
			t.Fatalf("scale %v: error = %v, want ErrInvalidScale", s, err)
		}
		if !errors.Is(err, trajectory.ErrInvalidConfig) {
			t.Fatalf("scale %v: error %v does not match ErrInvalidConfig", s, err)
		}
	}
}

func TestApplyLengthMismatch(t *testing.T) {
	tr := sampleTrace()
	tr.Y = tr.Y[:2]
	if _, err := Apply(tr, Params{Scale: 1}); err == nil {
		t.Fatal("expected error for mismatched slices")
	}
}

func TestParamsFromConfig(t *testing.T) {
	cfg := trajectory.DeviceConfig{Scale: 154}
	p := ParamsFromConfig(cfg, 127, 153, -0.5)
	want := Params{Scale: 154, DX: 127, DY: 153, RotateDeg: -0.5}
	if p != want {
		t.Fatalf("ParamsFromConfig() = %+v, want %+v", p, want)
	}
}
