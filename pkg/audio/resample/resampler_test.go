// ABOUTME: Tests for the linear resampler
// ABOUTME: Tests up/down conversion and seamless chunked input
package resample

import "testing"

func ramp(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(i * 1000)
	}
	return out
}

func TestUpsampleInterpolates(t *testing.T) {
	r := New(1, 2, 1)
	out := make([]int32, r.OutputSamplesNeeded(4))

	n := r.Resample(ramp(4), out)
	want := []int32{0, 500, 1000, 1500, 2000, 2500}
	if n != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), n)
	}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("sample %d: expected %d, got %d", i, w, out[i])
		}
	}
}

func TestDownsampleSkips(t *testing.T) {
	r := New(2, 1, 1)
	out := make([]int32, r.OutputSamplesNeeded(8))

	n := r.Resample(ramp(8), out)
	want := []int32{0, 2000, 4000, 6000}
	if n != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), n)
	}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("sample %d: expected %d, got %d", i, w, out[i])
		}
	}
}

func TestChunkedMatchesWhole(t *testing.T) {
	input := ramp(10)

	whole := New(1, 2, 1)
	a := make([]int32, 64)
	na := whole.Resample(input, a)

	chunked := New(1, 2, 1)
	b := make([]int32, 64)
	nb := chunked.Resample(input[:5], b)
	nb += chunked.Resample(input[5:], b[nb:])

	if na != nb {
		t.Fatalf("expected %d samples from chunks, got %d", na, nb)
	}
	for i := 0; i < na; i++ {
		if a[i] != b[i] {
			t.Errorf("sample %d: whole %d, chunked %d", i, a[i], b[i])
		}
	}
}

func TestStereoChannelsIndependent(t *testing.T) {
	r := New(1, 2, 2)
	out := make([]int32, r.OutputSamplesNeeded(4))

	n := r.Resample([]int32{0, 100, 1000, 100}, out)
	if n != 2*2 {
		t.Fatalf("expected 2 frames, got %d samples", n)
	}
	if out[2] != 500 || out[3] != 100 {
		t.Errorf("unexpected midpoint frame %d/%d", out[2], out[3])
	}
}

func TestResetForgetsCarry(t *testing.T) {
	r := New(1, 2, 1)
	out := make([]int32, 16)
	r.Resample(ramp(3), out)
	r.Reset()

	n := r.Resample([]int32{7000, 7000}, out)
	if n != 2 || out[0] != 7000 {
		t.Errorf("expected fresh start after reset, got %d samples first %d", n, out[0])
	}
}
