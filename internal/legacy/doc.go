// legacy implements the pipe-delimited handshakes preserved for
// compatibility with the deployed portal counterpart:
//
// **push authentication token**
// the portal redirects citizens to a department with an encrypted
// query-string token of five pipe-delimited fields. The embedded checksum is
// recomputed with the shared checksum key substituted at the checksum field
// position; a mismatch rejects the request as unauthenticated before any
// business processing occurs.
//
// **pull status payload**
// departments push application status updates to the portal as 21
// pipe-delimited fields sealed with a trailing checksum computed over the
// preceding 20 fields plus the shared key.
//
// Field orders are bit-exact per the integration contract and must never be
// reordered.
package legacy
