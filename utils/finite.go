package utils

import "math"

// Finite はNaN/Infを含まない場合にtrueを返します。
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
