package animation

// Saturating 8 bit helpers. Heat and colour arithmetic clamps to [0, 255] and
// never wraps

func qadd8(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	if sum > 0xFF {
		return 0xFF
	}
	return uint8(sum)
}

// qsubInt subtracts an amount that may exceed the 8 bit range, flooring at zero
func qsubInt(a uint8, b int) uint8 {
	diff := int(a) - b
	if diff < 0 {
		return 0
	}
	if diff > 0xFF {
		return 0xFF
	}
	return uint8(diff)
}

// scale8Video scales like a fraction of 256 but never takes a non zero value to zero
func scale8Video(i, scale uint8) uint8 {
	v := uint8((uint16(i) * uint16(scale)) >> 8)
	if i != 0 && scale != 0 {
		v++
	}
	return v
}
