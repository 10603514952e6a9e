package codec

// validUUID reports whether b (16 bytes) carries a valid RFC-4122 version
// nibble (1-5) and variant bits, per spec.md §4.2 and §8's boundary cases
// (all-zeros and versions 0, 6-15 must be rejected).
func validUUID(b []byte) bool {
	if len(b) != 16 {
		return false
	}
	version := b[6] >> 4
	if version < 1 || version > 5 {
		return false
	}
	variant := b[8] >> 6
	if variant != 0b10 {
		return false
	}
	return true
}
