package fieldtype

import (
	"math"
	"reflect"

	"github.com/scgriffiths/bitformat-go/bitseq"
)

// valuesEqual compares two unpacked dtype values for the const-mismatch
// check (§4.4.1) and for the Pass-identity / round-trip property tests.
// bitseq.BitSeq compares by content (bitseq.Equal); floats treat NaN as
// equal to NaN, matching the round-trip property's NaN carve-out (§8.1.1).
func valuesEqual(a, b interface{}) bool {
	if ab, ok := a.(bitseq.BitSeq); ok {
		bb, ok2 := b.(bitseq.BitSeq)
		return ok2 && bitseq.Equal(ab, bb)
	}
	if af, ok := a.(float64); ok {
		bf, ok2 := b.(float64)
		if !ok2 {
			return false
		}
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		return af == bf
	}
	return reflect.DeepEqual(a, b)
}
