package chain

import (
	"errors"
	"math/big"
)

// Version is the fixed header version emitted by this protocol revision.
const Version uint8 = 2

// HeaderSize is the fixed encoded size of a Header in bytes:
// 1 (version) + 32 (previous_hash) + 32 (merkle_root) + 4 (timestamp) + 32 (nonce).
const HeaderSize = 1 + HashSize + HashSize + 4 + 32

// ErrShortBuffer is returned when a decode call is handed fewer bytes
// than the wire format requires. DecodeHeader also returns it for a buffer
// longer than HeaderSize.
var ErrShortBuffer = errors.New("chain: buffer too short to decode")

// Header carries the fields that are proof-of-work mined and that link
// one block to its predecessor.
type Header struct {
	Version      uint8
	PreviousHash Hash
	MerkleRoot   Hash
	Timestamp    uint32
	Nonce        *big.Int
}

// Encode serializes the header to its fixed 101-byte wire representation.
// All integers are big-endian.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)

	buf[0] = h.Version
	copy(buf[1:1+HashSize], h.PreviousHash[:])
	copy(buf[1+HashSize:1+2*HashSize], h.MerkleRoot[:])

	off := 1 + 2*HashSize
	buf[off] = byte(h.Timestamp >> 24)
	buf[off+1] = byte(h.Timestamp >> 16)
	buf[off+2] = byte(h.Timestamp >> 8)
	buf[off+3] = byte(h.Timestamp)

	nonce := h.Nonce
	if nonce == nil {
		nonce = new(big.Int)
	}
	nonceBytes := nonce.Bytes()
	copy(buf[off+4+(32-len(nonceBytes)):], nonceBytes)

	return buf
}

// DecodeHeader reverses Encode. Any length mismatch is a fatal decode error.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, ErrShortBuffer
	}

	h := Header{
		Version:      b[0],
		PreviousHash: HashFromBytes(b[1 : 1+HashSize]),
		MerkleRoot:   HashFromBytes(b[1+HashSize : 1+2*HashSize]),
	}

	off := 1 + 2*HashSize
	h.Timestamp = uint32(b[off])<<24 | uint32(b[off+1])<<16 | uint32(b[off+2])<<8 | uint32(b[off+3])
	h.Nonce = new(big.Int).SetBytes(b[off+4:])

	return h, nil
}

// Hash returns double_sha256(encode(header)), the block identity hash.
func (h Header) Hash() Hash {
	return DoubleSha256(h.Encode())
}
