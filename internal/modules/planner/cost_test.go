package planner

import "testing"

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		price    float64
		mpg      float64
		want     float64
	}{
		{"zero distance costs nothing", 0, 3.50, 10, 0},
		{"100 miles at 10mpg", 100, 3.00, 10, 30},
		{"fractional result", 920, 2.95, 10, 271.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(EstimateCost(tt.distance, tt.price, tt.mpg))
			if got != tt.want {
				t.Errorf("EstimateCost(%f, %f, %f) = %f, want %f", tt.distance, tt.price, tt.mpg, got, tt.want)
			}
		})
	}
}

func TestEstimateCost_Monotonic(t *testing.T) {
	base := EstimateCost(500, 3.00, 10)
	if EstimateCost(600, 3.00, 10) <= base {
		t.Error("cost should strictly increase with distance")
	}
	if EstimateCost(500, 3.10, 10) <= base {
		t.Error("cost should strictly increase with price")
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(271.399999); got != 271.4 {
		t.Errorf("Round2(271.399999) = %f, want 271.4", got)
	}
	if got := Round2(0.005); got != 0.01 {
		t.Errorf("Round2(0.005) = %f, want 0.01", got)
	}
}
