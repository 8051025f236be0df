// Package fork implements the longest-chain replacement rule: deciding
// whether to extend the current ledger along a candidate chain or rebuild
// it from genesis, then validating.
package fork

import (
	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/ledger"
	"github.com/qcbit/blockchain/foundation/blockchain/validate"
)

// firstDivergence returns the lowest index at which candidate and current
// differ, or len(current) if candidate is a strict extension of current.
func firstDivergence(candidate, current []chain.Hash) int {
	for i, h := range candidate {
		if i == len(current) || h != current[i] {
			return i
		}
	}
	return len(current)
}

// ReplaceBlockchain decides whether candidate should replace current. The
// ledger is never rolled back in place: if currentBalance has already
// advanced past the point where candidate and current diverge, a fresh
// balance is rebuilt from candidate's own genesis block and the whole
// candidate chain is replayed from there; otherwise currentBalance already
// sits on the shared prefix and candidate is validated starting from it.
func ReplaceBlockchain(candidate, current chain.Blockchain, currentBalance ledger.Balance) (bool, ledger.Balance) {
	if len(candidate.Chain) <= len(current.Chain) {
		return false, ledger.Balance{}
	}

	divergeAt := firstDivergence(candidate.Chain, current.Chain)

	latestIndex := current.IndexOf(currentBalance.LatestHash)
	if latestIndex < 0 {
		return false, ledger.Balance{}
	}

	if latestIndex < divergeAt {
		return validate.ValidateBlockchain(candidate, currentBalance)
	}

	genesisBlock, ok := candidate.BlockAt(0)
	if !ok {
		return false, ledger.Balance{}
	}
	genesisHash := candidate.Chain[0]

	genesisOnly := chain.Blockchain{
		Chain:  []chain.Hash{genesisHash},
		Blocks: map[chain.Hash]chain.Block{genesisHash: genesisBlock},
	}

	freshBalance := ledger.InitBalance(genesisOnly, currentBalance.Keychain, currentBalance.Verify)

	return validate.ValidateBlockchain(candidate, freshBalance)
}
