// crypto implements the cryptographic primitives shared by both sides of the
// Track Application Status protocol:
//
// **cipher codec**
// a TripleDES/CBC codec with zero-byte padding and uppercase hex transport
// encoding. The key and IV are the raw UTF-8 bytes of the configured 24 and 8
// character strings. Both the portal and the department derive the codec from
// the same shared configuration, so a codec built here interoperates with the
// deployed counterpart byte for byte.
//
// **checksum**
// the CRC-32 integrity code used by the legacy pipe-delimited handshakes
// (push authentication token, pull status payload). This is the standard
// reflected CRC-32 (polynomial 0xEDB88320, seed 0xFFFFFFFF, inverted output),
// rendered as a decimal string on the wire.
//
// **error handling**
// all failures are returned as *CryptoError values carrying an ErrorCode so
// the protocol envelope handler can map them to HTTP statuses without
// string matching.
package crypto
