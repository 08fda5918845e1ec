// README: Fuel cost estimation at a fixed vehicle efficiency.
package planner

import "math"

// EstimateCost returns the fuel cost of driving distanceMiles at mpg with the
// given per-gallon price. Pure; callers validate distance >= 0 and price > 0.
func EstimateCost(distanceMiles, pricePerGallon, mpg float64) float64 {
	gallons := distanceMiles / mpg
	return gallons * pricePerGallon
}

// Round2 rounds to 2 decimal places for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
