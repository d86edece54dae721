package version

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Version
		want int
	}{
		{Version{3, 11, 4}, Version{3, 11, 4}, 0},
		{Version{3, 8, 0}, Version{3, 11, 0}, -1},
		{Version{3, 11, 0}, Version{3, 8, 0}, 1},
		{Version{2, 7, 18}, Version{3, 0, 0}, -1},
		{Version{3, 0, 1}, Version{3, 0, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"_vs_"+tt.b.String(), func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLessThanAndGreaterThanOrEqual(t *testing.T) {
	floor := Version{3, 8, 0}

	if !(Version{3, 7, 9}).LessThan(floor) {
		t.Error("3.7.9 should be less than 3.8.0")
	}
	if !(Version{3, 8, 0}).GreaterThanOrEqual(floor) {
		t.Error("3.8.0 should be >= 3.8.0")
	}
	if (Version{3, 8, 0}).LessThan(floor) {
		t.Error("3.8.0 should not be less than 3.8.0")
	}
}
