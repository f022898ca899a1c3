package filter

import "testing"

func rows(n int) []Ranked {
	out := make([]Ranked, n)
	for i := range out {
		out[i].Id = i + 1
	}
	return out
}

func TestSliceWindows(t *testing.T) {
	all := rows(45)
	first := Slice(all, 20, 1)
	if len(first) != 20 || first[0].Id != 1 {
		t.Errorf("unexpected first page: len %d", len(first))
	}
	last := Slice(all, 20, 3)
	if len(last) != 5 || last[0].Id != 41 {
		t.Errorf("unexpected last page: len %d", len(last))
	}
}

func TestSliceClampsPage(t *testing.T) {
	all := rows(10)
	out := Slice(all, 20, 99)
	if len(out) != 10 {
		t.Errorf("page past the end must clamp to the last page, got %d rows", len(out))
	}
	out = Slice(all, 20, -3)
	if len(out) != 10 {
		t.Errorf("page below 1 must clamp to page 1, got %d rows", len(out))
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, size, expected int }{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.size); got != c.expected {
			t.Errorf("TotalPages(%d,%d) = %d, expected %d", c.total, c.size, got, c.expected)
		}
	}
}

func TestSliceEmpty(t *testing.T) {
	out := Slice(nil, 20, 1)
	if len(out) != 0 {
		t.Errorf("expected empty window, got %d", len(out))
	}
}
