package protocol

// ChecksumMask keeps the low 16 bits of the accumulator.
const ChecksumMask = 0xFFFF

// Checksum computes the cumulative shift checksum of data: starting from
// zero, each byte is added to the accumulator which is then shifted left by
// one bit. The accumulator is truncated to 16 bits only once, at the end.
//
// A frame checksum covers every byte from the start marker through the end
// of the payload.
func Checksum(data []byte) uint16 {
	var acc uint64
	for _, b := range data {
		acc += uint64(b)
		acc <<= 1
	}
	return uint16(acc & ChecksumMask)
}
