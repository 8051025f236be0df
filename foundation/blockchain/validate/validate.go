// Package validate replays a blockchain block-by-block against a Balance,
// checking header linkage, proof-of-work, monotonic timestamps, Merkle
// commitment and transaction validity while advancing the ledger.
package validate

import (
	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/ledger"
	"github.com/qcbit/blockchain/foundation/blockchain/merkle"
	"github.com/qcbit/blockchain/foundation/blockchain/pow"
)

// ValidateHeader checks that a header correctly extends previousHash,
// that its timestamp is non-strictly monotonic with previousTimestamp,
// and that it satisfies the fixed proof-of-work difficulty.
func ValidateHeader(header chain.Header, previousHash chain.Hash, previousTimestamp uint32) (ok bool, currentHash chain.Hash, currentTimestamp uint32) {
	if header.PreviousHash != previousHash || header.Timestamp < previousTimestamp {
		return false, chain.Hash{}, 0
	}

	hash, solved := pow.CheckHeader(header)
	if !solved {
		return false, chain.Hash{}, 0
	}

	return true, hash, header.Timestamp
}

// merkleRootMatches recomputes a block's Merkle root from its own
// transactions and compares it against the header's committed root. The
// reference source does not perform this check in ValidateBlock; this
// implementation adds it deliberately (spec deviation, recommended
// because its absence lets a miner commit to one Merkle root while
// shipping different transactions).
func merkleRootMatches(block chain.Block) bool {
	tree, err := merkle.NewTree(block.Transactions)
	if err != nil {
		return false
	}
	return tree.Root() == block.Header.MerkleRoot
}

// ValidateBlock checks a single block against previousHash/previousTimestamp
// and then validates every transaction against balance as of the *start*
// of the block — outputs created earlier in the same block are not visible
// to later transactions in that block. This is the chosen, preserved
// semantics (not a bug): a transaction created and spent within the same
// block is rejected even though it would be structurally possible.
func ValidateBlock(block chain.Block, previousHash chain.Hash, previousTimestamp uint32, balance ledger.Balance) (ok bool, blockHash chain.Hash, timestamp uint32) {
	validHeader, currentHash, currentTimestamp := ValidateHeader(block.Header, previousHash, previousTimestamp)
	if !validHeader {
		return false, chain.Hash{}, 0
	}

	if !merkleRootMatches(block) {
		return false, chain.Hash{}, 0
	}

	for _, tx := range block.Transactions {
		if !ledger.ValidateTransaction(balance, tx) {
			return false, chain.Hash{}, 0
		}
	}

	return true, currentHash, currentTimestamp
}

// ValidateBlockchain locates balance.LatestHash within blockchain, then
// replays every following block: validating it against the balance as it
// stood before that block, and applying it only once valid. The balance
// passed in is never mutated in place — ValidateBlockchain works on a
// clone and only the clone, fully advanced, is returned on success. On any
// failure it returns (false, zero-value), leaving the caller's own balance
// untouched.
func ValidateBlockchain(bc chain.Blockchain, balance ledger.Balance) (bool, ledger.Balance) {
	working := balance.Clone()

	index := bc.IndexOf(working.LatestHash)
	if index < 0 {
		return false, ledger.Balance{}
	}

	previousHash := working.LatestHash

	latestBlock, ok := bc.BlockAt(index)
	if !ok {
		return false, ledger.Balance{}
	}
	previousTimestamp := latestBlock.Header.Timestamp

	for i := index + 1; i < len(bc.Chain); i++ {
		block, ok := bc.BlockAt(i)
		if !ok {
			return false, ledger.Balance{}
		}

		valid, currentHash, currentTimestamp := ValidateBlock(block, previousHash, previousTimestamp, working)
		if !valid {
			return false, ledger.Balance{}
		}

		previousHash = currentHash
		previousTimestamp = currentTimestamp

		working = ledger.UpdateBalance(working, block)
	}

	return true, working
}
