// Package ledger implements Balance, the per-account unspent-output
// snapshot: an ordered list of reference hashes per address, advanced
// forward only by block application and never rolled back in place.
package ledger

import (
	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/txrules"
)

// PublicKey is an opaque verifying key. The ledger never inspects it; it
// only ever hands it to a VerifyFunc supplied by the signature collaborator.
type PublicKey any

// VerifyFunc is the pure signature-checking collaborator the ledger is
// built around: it takes a public key, a signature and the message that
// was signed, and reports whether the signature is valid. Key material and
// the signature primitive itself live outside this package.
type VerifyFunc func(pub PublicKey, sig, message []byte) bool

// Keychain maps an address to its verifying public key. A nil Keychain
// means the ledger cannot verify any transfer and must reject all of them.
type Keychain map[chain.Address]PublicKey

// Accounts maps an address to its ordered (FIFO) list of unspent
// reference hashes.
type Accounts map[chain.Address][]chain.Hash

// Balance is the ledger snapshot as of a specific block. It is mutable and
// owned by its caller: InitTransfer and UpdateBalance change its accounts
// in place, while the chain validator advances a Clone and returns that.
// Concurrent callers must serialize access externally.
type Balance struct {
	LatestHash chain.Hash
	Keychain   Keychain
	Accounts   Accounts
	Verify     VerifyFunc
}

// Clone returns a deep copy of the balance, sharing the Keychain (read-only
// verifying keys) and VerifyFunc but copying the mutable Accounts. Used by
// the chain validator and fork chooser so a failed validation never leaks a
// partially-advanced balance back to the caller.
func (b Balance) Clone() Balance {
	accounts := make(Accounts, len(b.Accounts))
	for addr, refs := range b.Accounts {
		accounts[addr] = append([]chain.Hash(nil), refs...)
	}

	return Balance{
		LatestHash: b.LatestHash,
		Keychain:   b.Keychain,
		Accounts:   accounts,
		Verify:     b.Verify,
	}
}

// InitBalance folds every block of blockchain, in chain order, into an
// empty set of accounts, yielding a snapshot current as of the chain's
// last block.
func InitBalance(bc chain.Blockchain, keychain Keychain, verify VerifyFunc) Balance {
	accounts := make(Accounts)

	var latest chain.Hash
	for _, blockHash := range bc.Chain {
		block := bc.Blocks[blockHash]
		accounts = UpdateAccounts(accounts, block)
		latest = blockHash
	}

	return Balance{
		LatestHash: latest,
		Keychain:   keychain,
		Accounts:   accounts,
		Verify:     verify,
	}
}

// removeFirst removes the first occurrence of hash from refs, if present.
func removeFirst(refs []chain.Hash, hash chain.Hash) []chain.Hash {
	for i, h := range refs {
		if h == hash {
			return append(refs[:i], refs[i+1:]...)
		}
	}
	return refs
}

// UpdateAccounts applies every transaction of block to accounts, in
// order: a transfer's reference_hash is removed from its sender's unspent
// list, and the new output hash produced by the transaction is appended to
// its receiver's list. A transfer whose sender has no account, or whose
// reference_hash is not in the sender's list, is a ledger invariant
// violation and panics; validate.ValidateBlock front-gates blocks with
// ValidateTransaction so that valid chains never reach it.
func UpdateAccounts(accounts Accounts, block chain.Block) Accounts {
	for _, tx := range block.Transactions {
		if !txrules.IsReward(tx) {
			refs, ok := accounts[tx.Sender]
			if !ok {
				panic("ledger: update_accounts: spending from an unknown sender, validator failed to prevent this")
			}
			before := len(refs)
			refs = removeFirst(refs, tx.ReferenceHash)
			if len(refs) == before {
				panic("ledger: update_accounts: spending a reference hash the sender does not hold, validator failed to prevent this")
			}
			accounts[tx.Sender] = refs
		}

		newRef := chain.ReferenceOutputHash(tx)
		accounts[tx.Receiver] = append(accounts[tx.Receiver], newRef)
	}

	return accounts
}

// UpdateBalance applies block to balance's accounts and advances its
// latest hash to block's identity hash.
func UpdateBalance(balance Balance, block chain.Block) Balance {
	balance.Accounts = UpdateAccounts(balance.Accounts, block)
	balance.LatestHash = block.Hash()
	return balance
}

// InitTransfer is the wallet-side helper for crafting an outbound spend.
// It mutates the live balance by popping the FIFO-first unspent reference
// hash for sender and returns both the (same) balance and the constructed
// transaction. Callers who want to preview a transfer without committing
// to it must Clone the balance first; this function intentionally does
// not do that for them.
func InitTransfer(balance Balance, sender, receiver chain.Address, signature []byte) (*Balance, *chain.Transaction) {
	refs := balance.Accounts[sender]
	if len(refs) == 0 {
		return nil, nil
	}

	referenceHash := refs[0]
	balance.Accounts[sender] = refs[1:]

	tx := chain.Transaction{
		ReferenceHash: referenceHash,
		Sender:        sender,
		Receiver:      receiver,
		Signature:     signature,
	}

	return &balance, &tx
}

// ValidateTransaction checks whether tx may be applied against balance.
// Rewards bypass the ledger entirely and are checked structurally by
// txrules.ValidateReward. A transfer is valid when its sender has a
// non-empty account, the keychain carries a verifying key for it,
// reference_hash is currently unspent (present anywhere in the sender's
// list — not necessarily at the head, unlike InitTransfer's FIFO spend),
// and the signature verifies over reference_hash || receiver.
func ValidateTransaction(balance Balance, tx chain.Transaction) bool {
	if txrules.IsReward(tx) {
		return txrules.ValidateReward(tx)
	}

	refs, ok := balance.Accounts[tx.Sender]
	if !ok || len(refs) == 0 {
		return false
	}

	if balance.Keychain == nil {
		return false
	}
	pub, ok := balance.Keychain[tx.Sender]
	if !ok {
		return false
	}

	isUnspent := false
	for _, h := range refs {
		if h == tx.ReferenceHash {
			isUnspent = true
			break
		}
	}
	if !isUnspent {
		return false
	}

	if balance.Verify == nil {
		return false
	}

	return balance.Verify(pub, tx.Signature, txrules.TransferMessage(tx))
}
