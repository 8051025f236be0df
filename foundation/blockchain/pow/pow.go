// Package pow implements the fixed-difficulty proof-of-work search: a
// nonce such that double_sha256(encode(header)) begins with two zero
// bytes. Difficulty never retargets.
package pow

import (
	"context"
	"math/big"

	"github.com/qcbit/blockchain/foundation/blockchain/chain"
)

// EventHandler receives progress notifications during a mining run, in the
// same "printf-style" shape the rest of this codebase's worker loops use.
type EventHandler func(v string, args ...any)

// Solved reports whether hash satisfies the fixed PoW difficulty: its
// first two bytes must be zero.
func Solved(hash chain.Hash) bool {
	return hash[0] == 0x00 && hash[1] == 0x00
}

// Result is what a mining attempt produces.
type Result struct {
	Found      bool
	Nonce      *big.Int
	HeaderHash chain.Hash
	Header     chain.Header
}

// Mine searches for a nonce, starting at nonceStart and incrementing by
// one, that solves the header's proof-of-work puzzle. If maxIterations is
// non-nil and reached before a solution is found, Mine returns with
// Found == false and Result.Nonce holding the next nonce to resume from —
// the designated cooperative yield point so an outer scheduler can
// interleave mining with I/O. ctx cancellation also stops the search early,
// returning Found == false and the resume nonce together with ctx's error.
func Mine(ctx context.Context, previousHash, merkleRoot chain.Hash, timestamp uint32, nonceStart *big.Int, maxIterations *uint64, ev func(v string, args ...any)) (Result, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	nonce := new(big.Int)
	if nonceStart != nil {
		nonce.Set(nonceStart)
	}

	var iterations uint64
	one := big.NewInt(1)

	for {
		if maxIterations != nil && iterations == *maxIterations {
			return Result{Found: false, Nonce: new(big.Int).Set(nonce)}, nil
		}

		if err := ctx.Err(); err != nil {
			return Result{Found: false, Nonce: new(big.Int).Set(nonce)}, err
		}

		header := chain.Header{
			Version:      chain.Version,
			PreviousHash: previousHash,
			MerkleRoot:   merkleRoot,
			Timestamp:    timestamp,
			Nonce:        new(big.Int).Set(nonce),
		}

		headerHash := header.Hash()

		if Solved(headerHash) {
			ev("pow: Mine: SOLVED: prevBlk[%s] newBlk[%s] attempts[%d]", previousHash, headerHash, iterations)
			return Result{
				Found:      true,
				Nonce:      new(big.Int).Set(nonce),
				HeaderHash: headerHash,
				Header:     header,
			}, nil
		}

		nonce.Add(nonce, one)
		iterations++

		if iterations%1_000_000 == 0 {
			ev("pow: Mine: running: attempts[%d]", iterations)
		}
	}
}

// CheckHeader recomputes a header's hash and reports whether it satisfies
// the fixed proof-of-work difficulty. This is the check the chain
// validator performs on every non-genesis block.
func CheckHeader(h chain.Header) (chain.Hash, bool) {
	hash := h.Hash()
	return hash, Solved(hash)
}
