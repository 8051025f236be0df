// Package worker runs the mining loop on its own goroutine: a start signal
// triggers a bounded proof-of-work attempt, and Shutdown stops the
// goroutine cleanly.
package worker

import (
	"context"
	"math/big"
	"sync"

	"github.com/qcbit/blockchain/app/services/node/state"
	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/ledger"
	"github.com/qcbit/blockchain/foundation/blockchain/merkle"
	"github.com/qcbit/blockchain/foundation/blockchain/pow"
	"github.com/qcbit/blockchain/foundation/blockchain/txrules"
)

// PendingTransfers supplies the transactions a new block should carry,
// beyond its own mandatory reward. Returning nil is fine — a block with
// just the reward is valid.
type PendingTransfers func() []chain.Transaction

// Worker mines new blocks for State in the background.
type Worker struct {
	state        *state.State
	beneficiary  chain.Address
	pending      PendingTransfers
	maxIters     uint64
	evHandler    state.EventHandler
	wg           sync.WaitGroup
	shut         chan struct{}
	startMining  chan struct{}
}

// Run constructs a Worker, registers it with st, and starts its mining
// goroutine.
func Run(st *state.State, beneficiary chain.Address, pending PendingTransfers, maxIterationsPerAttempt uint64, ev state.EventHandler) *Worker {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	w := &Worker{
		state:       st,
		beneficiary: beneficiary,
		pending:     pending,
		maxIters:    maxIterationsPerAttempt,
		evHandler:   ev,
		shut:        make(chan struct{}),
		startMining: make(chan struct{}, 1),
	}

	st.Worker = w

	w.wg.Add(1)
	go w.loop()

	return w
}

// SignalStartMining requests a mining attempt, coalescing with any
// already-pending signal.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- struct{}{}:
	default:
	}
}

// Shutdown stops the mining goroutine and waits for it to exit.
func (w *Worker) Shutdown() {
	close(w.shut)
	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.startMining:
			w.attempt()
		case <-w.shut:
			return
		}
	}
}

// attempt builds a candidate block on top of the current tip and mines it
// in bounded runs of maxIters nonces, each resuming where the last stopped,
// until a block is found or the worker is asked to shut down.
func (w *Worker) attempt() {
	w.evHandler("worker: attempt: mining started")
	defer w.evHandler("worker: attempt: mining completed")

	var previousHash chain.Hash
	var timestamp uint32
	var transactions []chain.Transaction

	w.state.Snapshot(func(bc chain.Blockchain, balance ledger.Balance) {
		previousHash = balance.LatestHash
		if tip, ok := bc.Blocks[previousHash]; ok {
			timestamp = tip.Header.Timestamp
		}

		transactions = append(transactions, chain.Transaction{
			ReferenceHash: txrules.RewardReferenceHash,
			Sender:        txrules.RewardSender,
			Receiver:      w.beneficiary,
			Signature:     txrules.RewardSignature,
		})
		if w.pending != nil {
			transactions = append(transactions, w.pending()...)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-w.shut:
			cancel()
		case <-ctx.Done():
		}
	}()

	var nonce *big.Int

	for {
		select {
		case <-w.shut:
			return
		default:
		}

		block, resumeNonce, ok := w.mineOnce(ctx, previousHash, timestamp, transactions, nonce)
		if ok {
			if err := w.state.ApplyBlock(block); err != nil {
				w.evHandler("worker: attempt: mined block rejected: %s", err)
			}
			return
		}

		if ctx.Err() != nil {
			return
		}

		nonce = resumeNonce
	}
}

func (w *Worker) mineOnce(ctx context.Context, previousHash chain.Hash, previousTimestamp uint32, transactions []chain.Transaction, nonceStart *big.Int) (chain.Block, *big.Int, bool) {
	tree, err := merkle.NewTree(transactions)
	if err != nil {
		w.evHandler("worker: mineOnce: building merkle tree: %s", err)
		return chain.Block{}, nil, false
	}

	result, err := pow.Mine(ctx, previousHash, tree.Root(), previousTimestamp, nonceStart, &w.maxIters, w.evHandler)
	if err != nil || !result.Found {
		return chain.Block{}, result.Nonce, false
	}

	return chain.Block{Header: result.Header, Transactions: transactions}, nil, true
}
