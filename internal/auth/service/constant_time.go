package service

import "crypto/subtle"

// ConstantTimeEqual reports whether a and b are equal.
//
// Inputs of different lengths return false immediately: length is not treated as
// secret. Inputs of equal length are always scanned in full, so the running time
// does not depend on the position of the first differing byte.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
