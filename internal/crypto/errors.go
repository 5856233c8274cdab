package crypto

import "fmt"

type ErrorCode string

const (
	// ErrCodeCipher is used when encryption or decryption fails
	// (wrong key/IV length, malformed hex, ciphertext not block aligned).
	ErrCodeCipher ErrorCode = "cipher"

	// ErrCodeChecksum is used when a supplied checksum does not match the
	// value recomputed over the payload.
	ErrCodeChecksum ErrorCode = "invalid_checksum"

	// ErrCodeKeyConfig is used when the configured key material is unusable.
	ErrCodeKeyConfig ErrorCode = "key_config"
)

// CryptoError represents a structured error from the crypto package
type CryptoError struct {

	// code is the crypto error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *CryptoError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *CryptoError) Code() ErrorCode { return e.code }
func (e *CryptoError) Unwrap() error   { return e.wrapped }

// NewCipherError creates an encryption/decryption error.
//
// The returned error will have code ErrCodeCipher.
func NewCipherError(msg string) error {
	return &CryptoError{code: ErrCodeCipher, message: msg}
}

// WrapCipherError wraps an existing error as an encryption/decryption error.
//
// The returned error will have code ErrCodeCipher.
func WrapCipherError(err error, msg string) error {
	return &CryptoError{code: ErrCodeCipher, message: msg, wrapped: err}
}

// NewChecksumError creates a checksum verification error.
//
// The returned error will have code ErrCodeChecksum.
func NewChecksumError(msg string) error {
	return &CryptoError{code: ErrCodeChecksum, message: msg}
}

// NewKeyConfigError creates an error for unusable key material.
// Use this when the configured encryption key or IV has the wrong length.
//
// The returned error will have code ErrCodeKeyConfig.
func NewKeyConfigError(msg string) error {
	return &CryptoError{code: ErrCodeKeyConfig, message: msg}
}
