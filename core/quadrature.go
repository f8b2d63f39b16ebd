// Quadrature decoding for two-channel rotary encoders
package core

// Valid transitions form the 4-state Gray cycle 00->01->11->10->00
// (clockwise) and its reverse. A sample is (A<<1)|B.
//
// A transition that flips both bits cannot be told apart from coincident
// bounce on A and B, so it contributes nothing rather than a guessed +-2.
// The table is indexed by (prev<<2)|cur.
var quadTable = [16]int8{
	0,  // 00 -> 00  no change
	+1, // 00 -> 01  cw
	-1, // 00 -> 10  ccw
	0,  // 00 -> 11  indeterminate
	-1, // 01 -> 00  ccw
	0,  // 01 -> 01  no change
	0,  // 01 -> 10  indeterminate
	+1, // 01 -> 11  cw
	+1, // 10 -> 00  cw
	0,  // 10 -> 01  indeterminate
	0,  // 10 -> 10  no change
	-1, // 10 -> 11  ccw
	0,  // 11 -> 00  indeterminate
	-1, // 11 -> 01  ccw
	+1, // 11 -> 10  cw
	0,  // 11 -> 11  no change
}

// DecodeStep classifies one quadrature transition.
// Returns +1 for a clockwise edge, -1 for counter-clockwise,
// 0 for no change or an invalid (double-bit) transition.
func DecodeStep(prev, cur uint8) int8 {
	return quadTable[(prev&3)<<2|(cur&3)]
}

// PinState packs two channel reads into a 2-bit sample.
func PinState(a, b bool) uint8 {
	var s uint8
	if a {
		s |= 2
	}
	if b {
		s |= 1
	}
	return s
}
