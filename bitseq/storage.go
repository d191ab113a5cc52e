package bitseq

// Bits are numbered from 0 at the most-significant end of the backing
// buffer, matching the numbering the data model requires: bit g of buf
// lives in buf[g/8], at the (7 - g%8)'th bit counting from the LSB of that
// byte.

func getBit(buf []byte, g int) bool {
	return buf[g>>3]&(1<<uint(7-g&7)) != 0
}

func setBit(buf []byte, g int, v bool) {
	mask := byte(1) << uint(7-g&7)
	if v {
		buf[g>>3] |= mask
	} else {
		buf[g>>3] &^= mask
	}
}

// copyBits copies the n = srcEnd-srcStart bits of src, starting at absolute
// bit offset srcStart, into dst starting at absolute bit offset dstOffset.
// dst must already be large enough and its untouched bits are left alone.
func copyBits(dst []byte, dstOffset int, src []byte, srcStart, srcEnd int) {
	n := srcEnd - srcStart
	if n <= 0 {
		return
	}
	// Byte-aligned fast path, the common case for whole-byte payloads.
	if dstOffset&7 == 0 && srcStart&7 == 0 {
		copy(dst[dstOffset>>3:dstOffset>>3+n>>3], src[srcStart>>3:srcEnd>>3])
		for i := n &^ 7; i < n; i++ {
			setBit(dst, dstOffset+i, getBit(src, srcStart+i))
		}
		return
	}
	for i := 0; i < n; i++ {
		setBit(dst, dstOffset+i, getBit(src, srcStart+i))
	}
}

// extractBits returns a freshly allocated, tightly packed buffer holding the
// end-start bits of buf starting at bit start. The final byte, if any, is
// zero-padded in its low-order bits.
func extractBits(buf []byte, start, end int) []byte {
	n := end - start
	out := make([]byte, (n+7)/8)
	copyBits(out, 0, buf, start, end)
	return out
}

func byteLen(nbits int) int {
	return (nbits + 7) / 8
}
