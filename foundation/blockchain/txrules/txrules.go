// Package txrules holds the protocol constants and pure checks that
// distinguish a reward transaction from a transfer and that define the
// message a transfer's signature must cover.
package txrules

import (
	"bytes"

	"github.com/qcbit/blockchain/foundation/blockchain/chain"
)

// RewardSender is the well-known sentinel address that marks a
// transaction as a block reward rather than a transfer.
var RewardSender = chain.ZeroHash

// RewardReferenceHash is the fixed reference_hash every reward carries.
// A reward creates value without consuming a prior output, so it has no
// genuine predecessor to point at; the protocol fixes this convention
// rather than leaving the field meaningless.
var RewardReferenceHash = chain.ZeroHash

// RewardSignature is the fixed (empty) signature every reward carries.
var RewardSignature = []byte{}

// IsReward reports whether tx is a reward transaction by sender.
func IsReward(tx chain.Transaction) bool {
	return tx.Sender == RewardSender
}

// ValidateReward checks a transaction's structural conformance to the
// reward convention: sentinel sender, fixed reference hash, fixed
// signature. Rewards bypass ledger bookkeeping entirely and are always
// accepted once they match this shape.
func ValidateReward(tx chain.Transaction) bool {
	return tx.Sender == RewardSender &&
		tx.ReferenceHash == RewardReferenceHash &&
		bytes.Equal(tx.Signature, RewardSignature)
}

// TransferMessage returns the 64-byte message a transfer's signature must
// cover: reference_hash || receiver.
func TransferMessage(tx chain.Transaction) []byte {
	msg := make([]byte, 0, chain.HashSize*2)
	msg = append(msg, tx.ReferenceHash[:]...)
	msg = append(msg, tx.Receiver[:]...)
	return msg
}
