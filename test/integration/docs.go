// Package integration contains end-to-end tests for the department server.
//
// These tests run the full middleware and handler chain in-process against an
// in-memory data provider, with the portal role played by the real client so
// both sides of the encrypted exchange are exercised together.
//
// These tests assume the crypto, track and legacy packages are working
// correctly (tested separately). If bugs are introduced in lower-level
// packages, there will be cascading failures here - fix the low-level problems
// first.
package integration
