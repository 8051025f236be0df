// Package genesis holds the fixed protocol constants and constructs the
// one genesis block every chain in this protocol starts from.
package genesis

import (
	"math/big"

	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/merkle"
	"github.com/qcbit/blockchain/foundation/blockchain/txrules"
)

// Fixed protocol constants (§6). Timestamp and Nonce are bound together:
// they are only a valid proof-of-work pair for a block whose single
// reward transaction pays SeedReceiver.
const (
	Timestamp = uint32(1634700000)
	Nonce     = uint64(168)
)

// SeedReceiver is the fixed demo address the genesis reward pays. It is a
// deterministic placeholder (SHA-256 of a fixed label) standing in for the
// externally-generated seed wallet address the canonical network would
// use; the core does not care whose address it is, only that genesis is
// internally PoW-valid.
var SeedReceiver = chain.Sha256([]byte("minichain genesis seed receiver"))

// InitReward constructs the single reward transaction that funds receiver.
func InitReward(receiver chain.Address) chain.Transaction {
	return chain.Transaction{
		ReferenceHash: txrules.RewardReferenceHash,
		Sender:        txrules.RewardSender,
		Receiver:      receiver,
		Signature:     txrules.RewardSignature,
	}
}

// InitGenesisBlock builds the fixed genesis block paying receiver. It
// panics if the resulting header does not satisfy the proof-of-work
// difficulty at the fixed Timestamp/Nonce pair — callers constructing a
// demo chain for any other receiver than SeedReceiver should mine their
// own first block with pow.Mine instead of calling this.
func InitGenesisBlock(receiver chain.Address) chain.Block {
	reward := InitReward(receiver)

	tree, err := merkle.NewTree([]chain.Transaction{reward})
	if err != nil {
		panic("genesis: building merkle tree over the reward transaction: " + err.Error())
	}

	header := chain.Header{
		Version:      chain.Version,
		PreviousHash: chain.ZeroHash,
		MerkleRoot:   tree.Root(),
		Timestamp:    Timestamp,
		Nonce:        new(big.Int).SetUint64(Nonce),
	}

	hash := header.Hash()
	if hash[0] != 0x00 || hash[1] != 0x00 {
		panic("genesis: fixed timestamp/nonce pair does not solve proof-of-work for this receiver")
	}

	return chain.Block{
		Header:       header,
		Transactions: []chain.Transaction{reward},
	}
}

// InitBlockchain builds a one-block chain containing only the genesis
// block paying receiver.
func InitBlockchain(receiver chain.Address) chain.Blockchain {
	bc := chain.New()
	bc.Append(InitGenesisBlock(receiver))
	return bc
}
