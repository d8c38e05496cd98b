package sparse

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestMatrixSetAndGet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	M := NewIntMatrix(10, 10, -1)
	M.Set(2, 3, 4711)
	M.Set(0, 9, 1)
	M.Set(2, 1, 2)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected 4711 at (2,3), got %d", v)
	}
	if v := M.Value(9, 9); v != -1 {
		t.Errorf("expected null value at (9,9), got %d", v)
	}
	M.Set(2, 3, 5)
	if v := M.Value(2, 3); v != 5 || M.ValueCount() != 3 {
		t.Errorf("expected overwrite of (2,3), got %d with %d values", v, M.ValueCount())
	}
}

func TestMatrixPairs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	M := NewIntMatrix(3, 3, DefaultNullValue)
	M.Add(1, 1, 7)
	M.Add(1, 1, 8)
	a, b := M.Values(1, 1)
	if a != 7 || b != 8 {
		t.Errorf("expected pair (7,8), got (%d,%d)", a, b)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected a single position, have %d", M.ValueCount())
	}
	if a, b := M.Values(0, 0); a != DefaultNullValue || b != DefaultNullValue {
		t.Errorf("expected empty pair at (0,0)")
	}
}

func TestMatrixEachIsOrdered(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	M := NewIntMatrix(4, 4, -1)
	M.Set(3, 0, 30).Set(0, 2, 2).Set(1, 1, 11).Set(0, 1, 1)
	var seen []int32
	M.Each(func(i, j int, a, b int32) {
		seen = append(seen, a)
	})
	expected := []int32{1, 2, 11, 30}
	if len(seen) != len(expected) {
		t.Fatalf("expected %d values, got %v", len(expected), seen)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("expected values in row/column order %v, got %v", expected, seen)
			break
		}
	}
}

func TestMatrixOutOfRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrcc.lr")
	defer teardown()
	//
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for index out of range")
		}
	}()
	NewIntMatrix(2, 2, -1).Set(2, 0, 1)
}
