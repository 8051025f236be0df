// Package state wraps the core consensus/ledger packages with the mutex
// discipline and worker registration a concurrent, long-running node
// needs, exactly as spec.md §5 requires ("concurrent callers must
// serialize access externally") — this package is that externally
// supplied serialization.
package state

import (
	"fmt"
	"sync"

	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/fork"
	"github.com/qcbit/blockchain/foundation/blockchain/ledger"
	"github.com/qcbit/blockchain/foundation/blockchain/validate"
)

// EventHandler receives progress notifications, in the printf-style shape
// used throughout this codebase's mining and validation loops.
type EventHandler func(v string, args ...any)

// Worker is the behavior a mining/sync loop must provide to be registered
// with State.
type Worker interface {
	Shutdown()
	SignalStartMining()
}

// State owns the node's view of the blockchain and its ledger, and is the
// single point of mutex-protected access to both.
type State struct {
	mu sync.RWMutex

	beneficiary chain.Address
	evHandler   EventHandler

	bc      chain.Blockchain
	balance ledger.Balance

	Worker Worker
}

// Config bootstraps a State from a genesis-only blockchain and the
// keychain/verify collaborators needed to validate transfers.
type Config struct {
	Beneficiary chain.Address
	Genesis     chain.Blockchain
	Keychain    ledger.Keychain
	Verify      ledger.VerifyFunc
	EvHandler   EventHandler
}

// New constructs a State whose ledger is initialized by replaying Genesis.
func New(cfg Config) *State {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	return &State{
		beneficiary: cfg.Beneficiary,
		evHandler:   ev,
		bc:          cfg.Genesis,
		balance:     ledger.InitBalance(cfg.Genesis, cfg.Keychain, cfg.Verify),
	}
}

// Shutdown stops the registered worker, if any.
func (s *State) Shutdown() {
	if s.Worker != nil {
		s.Worker.Shutdown()
	}
}

// Beneficiary returns the configured mining beneficiary address.
func (s *State) Beneficiary() chain.Address {
	return s.beneficiary
}

// LatestBlock returns the block the ledger is currently current to.
func (s *State) LatestBlock() (chain.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	block, ok := s.bc.Blocks[s.balance.LatestHash]
	return block, ok
}

// ChainHeight returns the number of blocks known to the node.
func (s *State) ChainHeight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bc.Chain)
}

// Accounts returns a snapshot of every address's unspent reference count,
// safe for a caller to read without racing the worker.
func (s *State) Accounts() map[chain.Address]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[chain.Address]int, len(s.balance.Accounts))
	for addr, refs := range s.balance.Accounts {
		out[addr] = len(refs)
	}
	return out
}

// AccountRefs returns a copy of a single address's unspent reference hashes.
func (s *State) AccountRefs(addr chain.Address) []chain.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]chain.Hash(nil), s.balance.Accounts[addr]...)
}

// Genesis returns the chain's first block.
func (s *State) Genesis() (chain.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bc.BlockAt(0)
}

// ApplyBlock appends block to the node's chain and advances the ledger,
// failing if the block does not validate against the node's current
// tip. This is the path a freshly mined block goes through.
func (s *State) ApplyBlock(block chain.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := s.bc
	candidate.Chain = append([]chain.Hash(nil), s.bc.Chain...)
	candidate.Blocks = make(map[chain.Hash]chain.Block, len(s.bc.Blocks)+1)
	for h, b := range s.bc.Blocks {
		candidate.Blocks[h] = b
	}
	candidate.Append(block)

	ok, advanced := validate.ValidateBlockchain(candidate, s.balance)
	if !ok {
		return fmt.Errorf("state: ApplyBlock: block %s failed validation", block.Hash())
	}

	s.bc = candidate
	s.balance = advanced

	s.evHandler("state: ApplyBlock: accepted block %s at height %d", block.Hash(), len(s.bc.Chain)-1)

	return nil
}

// ReplaceChain evaluates candidate against the node's current chain using
// the longest-chain rule and swaps it in if it wins.
func (s *State) ReplaceChain(candidate chain.Blockchain) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, advanced := fork.ReplaceBlockchain(candidate, s.bc, s.balance)
	if !ok {
		return false, nil
	}

	s.bc = candidate
	s.balance = advanced

	s.evHandler("state: ReplaceChain: replaced chain, new height %d", len(s.bc.Chain)-1)

	return true, nil
}

// Snapshot exposes the balance/chain pair the mining worker needs to
// build and validate new blocks, via a caller-supplied function run under
// the state's read lock so the function sees the chain and balance as one
// consistent view; ApplyBlock cannot change them while it runs.
func (s *State) Snapshot(fn func(bc chain.Blockchain, balance ledger.Balance)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.bc, s.balance)
}
