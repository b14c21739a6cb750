package util

import "math"

func RoundFloat64(f float64, n int) float64 {
	pow := math.Pow10(n)
	return math.Round(f*pow) / pow
}

// Percent returns part/whole*100 rounded to n decimals, or 0 when whole is 0.
func Percent(part, whole int, n int) float64 {
	if whole == 0 {
		return 0
	}
	return RoundFloat64(float64(part)/float64(whole)*100, n)
}
