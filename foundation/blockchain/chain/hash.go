// Package chain implements the byte-exact wire format and the in-memory
// types for headers, transactions, blocks and the blockchain itself.
package chain

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSize is the fixed size in bytes of a Hash value.
const HashSize = 32

// Hash is a fixed 32-byte opaque value, the output of SHA-256.
type Hash [HashSize]byte

// Address is an opaque account identifier, derived externally from a
// public key. The core treats it as nothing more than a Hash.
type Address = Hash

// ZeroHash is the all-zero sentinel Hash, used as both the genesis
// previous_hash and the reward sender address.
var ZeroHash Hash

// String returns the lowercase hex encoding of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero value.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// HashFromBytes copies up to HashSize bytes of b into a Hash.
func HashFromBytes(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

// HashFromHex decodes a hex string into a Hash.
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, err
	}
	return HashFromBytes(b), nil
}

// Sha256 returns the single SHA-256 digest of data.
func Sha256(data []byte) Hash {
	return sha256.Sum256(data)
}

// DoubleSha256 returns SHA-256(SHA-256(data)), the hash used for block
// identity and proof-of-work.
func DoubleSha256(data []byte) Hash {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}
