// this file contains the CRC-32 integrity code used by the legacy
// pipe-delimited handshakes.
//
// both sides must produce bit-identical values, so the parameters are fixed:
// reflected CRC-32, polynomial 0xEDB88320, initial seed 0xFFFFFFFF, output
// inverted - i.e. the standard IEEE CRC-32 every deployed counterpart uses.
// Reference vector: Checksum("123456789") == 3421780262.

package crypto

import (
	"hash/crc32"
	"strconv"
)

// Checksum computes the CRC-32 of the UTF-8 bytes of input.
func Checksum(input string) uint32 {
	return crc32.ChecksumIEEE([]byte(input))
}

// ChecksumString computes the CRC-32 of input rendered as a decimal string,
// the representation used on the wire.
func ChecksumString(input string) string {
	return strconv.FormatUint(uint64(Checksum(input)), 10)
}

// VerifyChecksum recomputes the checksum of input and compares it against the
// supplied decimal-rendered value.
func VerifyChecksum(input string, suppliedChecksum string) bool {
	return ChecksumString(input) == suppliedChecksum
}
