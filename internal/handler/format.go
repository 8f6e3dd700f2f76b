package handler

import "math"

// API convention: percentages and averages are rendered with 2 decimal
// places, anomaly scores with 4. Engines keep full precision; rounding
// happens only at this edge.

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
