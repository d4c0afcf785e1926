package util

import "testing"

func TestRingBuffer(t *testing.T) {
	rb := NewRingBuffer(10)
	rb.Push([]float64{1, 2, 3, 4, 5, 6})
	if rb.Filled() != 6 {
		t.Fatal("expected 6 filled, got", rb.Filled())
	}
	rb.Push([]float64{7, 8, 9, 10, 11, 12})
	if rb.Filled() != 10 {
		t.Fatal("expected buffer to be full, got", rb.Filled())
	}

	cases := []struct {
		offset int
		exp    []float64
	}{
		{0, []float64{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{2, []float64{11, 12, 3, 4, 5, 6, 7, 8, 9, 10}},
		{-2, []float64{5, 6, 7, 8, 9, 10, 11, 12, 3, 4}},
	}
	for _, c := range cases {
		g := rb.GetOffset(10, c.offset)
		for i := range g {
			if g[i] != c.exp[i] {
				t.Fatal(c.offset, c.exp, g)
			}
		}
	}

	g := rb.Get(4)
	exp := []float64{9, 10, 11, 12}
	for i := range g {
		if g[i] != exp[i] {
			t.Fatal(exp, g)
		}
	}
}
