package chain

import (
	"errors"
	"fmt"
)

// ErrBadTransactionCount is returned when bytes remain in a transaction
// stream after the expected number of records has been decoded.
var ErrBadTransactionCount = errors.New("chain: transaction count mismatch")

// Transaction represents either a reward (sender == RewardSender, checked
// by package txrules) or a transfer. The core treats sender/receiver and
// signature as opaque values; it is the sentinel sender that distinguishes
// the two kinds.
type Transaction struct {
	ReferenceHash Hash
	Sender        Address
	Receiver      Address
	Signature     []byte
}

// Encode serializes the transaction as
// reference_hash(32) || sender(32) || receiver(32) || sig_len(1) || signature.
// The length prefix is what lets DecodeTransactions split a concatenated
// stream of variable-length signatures without ambiguity.
func (tx Transaction) Encode() []byte {
	buf := make([]byte, 0, HashSize*3+1+len(tx.Signature))
	buf = append(buf, tx.ReferenceHash[:]...)
	buf = append(buf, tx.Sender[:]...)
	buf = append(buf, tx.Receiver[:]...)
	buf = append(buf, byte(len(tx.Signature)))
	buf = append(buf, tx.Signature...)
	return buf
}

// DecodeTransaction decodes a single transaction from the head of b and
// returns it along with the number of bytes consumed.
func DecodeTransaction(b []byte) (Transaction, int, error) {
	const fixedSize = HashSize*3 + 1

	if len(b) < fixedSize {
		return Transaction{}, 0, ErrShortBuffer
	}

	tx := Transaction{
		ReferenceHash: HashFromBytes(b[0:HashSize]),
		Sender:        HashFromBytes(b[HashSize : 2*HashSize]),
		Receiver:      HashFromBytes(b[2*HashSize : 3*HashSize]),
	}

	sigLen := int(b[fixedSize-1])
	total := fixedSize + sigLen
	if len(b) < total {
		return Transaction{}, 0, ErrShortBuffer
	}

	if sigLen > 0 {
		tx.Signature = append([]byte(nil), b[fixedSize:total]...)
	}

	return tx, total, nil
}

// DecodeTransactions decodes exactly count transactions from the front of
// b. It is a fatal decode error if fewer than count records can be read or
// if bytes remain unconsumed.
func DecodeTransactions(count int, b []byte) ([]Transaction, error) {
	txs := make([]Transaction, 0, count)

	offset := 0
	for i := 0; i < count; i++ {
		tx, n, err := DecodeTransaction(b[offset:])
		if err != nil {
			return nil, fmt.Errorf("chain: decoding transaction %d: %w", i, err)
		}
		txs = append(txs, tx)
		offset += n
	}

	if offset != len(b) {
		return nil, ErrBadTransactionCount
	}

	return txs, nil
}

// ReferenceOutputHash returns the reference hash a transaction creates for
// its receiver: a single SHA-256 of the encoded transaction. This is the
// asymmetric counterpart to the double-SHA-256 used for block identity.
func ReferenceOutputHash(tx Transaction) Hash {
	return Sha256(tx.Encode())
}

// Hash implements merkle.Hashable. A transaction's Merkle leaf is the same
// single-SHA-256 digest used as its ledger reference hash.
func (tx Transaction) Hash() Hash {
	return ReferenceOutputHash(tx)
}
