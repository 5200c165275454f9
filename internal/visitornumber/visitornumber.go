// Package visitornumber generates the 4-digit display number printed on a
// visitor pass. The number is assigned once at registration, is not unique,
// and is never used as a lookup key.
package visitornumber

import "math/rand/v2"

// Next returns a number uniformly drawn from [1000, 9999].
func Next() int {
	return 1000 + rand.IntN(9000)
}
