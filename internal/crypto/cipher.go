// cipher.go implements the symmetric envelope codec used on both sides of the
// Track Application Status protocol.
//
// Transform: DESede/CBC/NoPadding with manual zero-byte padding, matching the
// deployed portal implementation exactly:
//
//	i)   plaintext UTF-8 bytes are zero-padded up to the 8-byte DES block size
//	ii)  encrypted with 3-key TripleDES in CBC mode (24-byte key, 8-byte IV)
//	iii) the ciphertext travels as uppercase hex digit pairs, no separators
//
// On decrypt the trailing zero bytes are stripped after UTF-8 decoding.
// Zero padding is lossy for plaintext that legitimately ends in NUL bytes;
// the protocol only ever carries JSON and pipe-delimited text, so this cannot
// occur in practice, but it is a known wire-contract limitation that must not
// be "fixed" unilaterally.

package crypto

import (
	"bytes"
	"crypto/cipher"
	"crypto/des"
	"encoding/hex"
	"fmt"
	"strings"
)

// KeySize is the required encryption key length in bytes (3-key TripleDES).
const KeySize = 24

// BlockSize is the DES block size; the IV must be exactly this long.
const BlockSize = des.BlockSize

// Codec encrypts and decrypts protocol payloads with a fixed key and IV.
//
// The key and IV are process-wide, read-only configuration: a Codec is built
// once at startup and is safe for concurrent use (a fresh CBC block mode is
// created per call).
type Codec struct {
	block cipher.Block
	iv    []byte
}

// NewCodec creates a Codec from the configured key and IV strings.
// The raw UTF-8 bytes of the strings are used directly as key material,
// so the key must be exactly 24 characters and the IV exactly 8.
func NewCodec(encryptionKey string, encryptionIV string) (*Codec, error) {
	keyBytes := []byte(encryptionKey)
	ivBytes := []byte(encryptionIV)

	if len(keyBytes) != KeySize {
		return nil, NewKeyConfigError(fmt.Sprintf("encryption key must be %d bytes, got %d", KeySize, len(keyBytes)))
	}
	if len(ivBytes) != BlockSize {
		return nil, NewKeyConfigError(fmt.Sprintf("encryption IV must be %d bytes, got %d", BlockSize, len(ivBytes)))
	}

	block, err := des.NewTripleDESCipher(keyBytes)
	if err != nil {
		return nil, WrapCipherError(err, "failed to initialize TripleDES cipher")
	}

	return &Codec{block: block, iv: ivBytes}, nil
}

// Encrypt zero-pads the plaintext to the block size, encrypts it and returns
// the uppercase hex encoding of the ciphertext.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	data := []byte(plaintext)

	paddedLen := ((len(data) + BlockSize - 1) / BlockSize) * BlockSize
	padded := make([]byte, paddedLen)
	copy(padded, data)

	encrypted := make([]byte, paddedLen)
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(encrypted, padded)

	return strings.ToUpper(hex.EncodeToString(encrypted)), nil
}

// Decrypt decodes the hex ciphertext (either case accepted), decrypts it and
// strips the trailing zero-byte padding.
func (c *Codec) Decrypt(hexCiphertext string) (string, error) {
	raw, err := hex.DecodeString(hexCiphertext)
	if err != nil {
		return "", WrapCipherError(err, "ciphertext is not valid hex")
	}

	if len(raw) == 0 || len(raw)%BlockSize != 0 {
		return "", NewCipherError(fmt.Sprintf("ciphertext length %d is not a multiple of the %d byte block size", len(raw), BlockSize))
	}

	decrypted := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(decrypted, raw)

	return string(bytes.TrimRight(decrypted, "\x00")), nil
}
