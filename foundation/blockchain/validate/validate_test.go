package validate

import (
	"context"
	"testing"

	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/ledger"
	"github.com/qcbit/blockchain/foundation/blockchain/merkle"
	"github.com/qcbit/blockchain/foundation/blockchain/pow"
	"github.com/qcbit/blockchain/foundation/blockchain/txrules"
)

func mineRewardBlock(t *testing.T, previousHash chain.Hash, timestamp uint32, receiver chain.Address) chain.Block {
	t.Helper()

	reward := chain.Transaction{
		ReferenceHash: txrules.RewardReferenceHash,
		Sender:        txrules.RewardSender,
		Receiver:      receiver,
		Signature:     txrules.RewardSignature,
	}

	tree, err := merkle.NewTree([]chain.Transaction{reward})
	if err != nil {
		t.Fatalf("building merkle tree: %v", err)
	}

	result, err := pow.Mine(context.Background(), previousHash, tree.Root(), timestamp, nil, nil, nil)
	if err != nil {
		t.Fatalf("mining: %v", err)
	}

	return chain.Block{Header: result.Header, Transactions: []chain.Transaction{reward}}
}

func TestValidateHeaderRejectsWrongPreviousHash(t *testing.T) {
	block := mineRewardBlock(t, chain.ZeroHash, 1700000000, chain.Sha256([]byte("r")))

	ok, _, _ := ValidateHeader(block.Header, chain.Sha256([]byte("wrong")), 0)
	if ok {
		t.Fatal("a header whose previous_hash does not match must not validate")
	}
}

func TestValidateHeaderRejectsRegressingTimestamp(t *testing.T) {
	block := mineRewardBlock(t, chain.ZeroHash, 1700000000, chain.Sha256([]byte("r")))

	ok, _, _ := ValidateHeader(block.Header, chain.ZeroHash, block.Header.Timestamp+1)
	if ok {
		t.Fatal("a header with a timestamp earlier than the previous block must not validate")
	}
}

func TestValidateHeaderAcceptsAValidHeader(t *testing.T) {
	block := mineRewardBlock(t, chain.ZeroHash, 1700000000, chain.Sha256([]byte("r")))

	ok, hash, ts := ValidateHeader(block.Header, chain.ZeroHash, 0)
	if !ok {
		t.Fatal("a correctly linked, solved header must validate")
	}
	if hash != block.Hash() || ts != block.Header.Timestamp {
		t.Fatal("ValidateHeader returned an unexpected hash/timestamp pair")
	}
}

func TestValidateBlockRejectsTamperedMerkleRoot(t *testing.T) {
	receiver := chain.Sha256([]byte("r"))
	block := mineRewardBlock(t, chain.ZeroHash, 1700000000, receiver)

	// Swap in a different reward after mining, so the committed root no
	// longer matches what the block actually carries.
	block.Transactions[0].Receiver = chain.Sha256([]byte("someone else"))

	balance := ledger.Balance{Accounts: make(ledger.Accounts)}
	ok, _, _ := ValidateBlock(block, chain.ZeroHash, 0, balance)
	if ok {
		t.Fatal("a block whose transactions don't hash to its committed Merkle root must not validate")
	}
}

func TestValidateBlockRejectsInvalidTransaction(t *testing.T) {
	receiver := chain.Sha256([]byte("r"))
	reward := chain.Transaction{
		ReferenceHash: txrules.RewardReferenceHash,
		Sender:        txrules.RewardSender,
		Receiver:      receiver,
		Signature:     []byte{0x01}, // malformed: rewards must carry an empty signature
	}

	tree, err := merkle.NewTree([]chain.Transaction{reward})
	if err != nil {
		t.Fatalf("building merkle tree: %v", err)
	}
	result, err := pow.Mine(context.Background(), chain.ZeroHash, tree.Root(), 1700000000, nil, nil, nil)
	if err != nil {
		t.Fatalf("mining: %v", err)
	}
	block := chain.Block{Header: result.Header, Transactions: []chain.Transaction{reward}}

	balance := ledger.Balance{Accounts: make(ledger.Accounts)}
	ok, _, _ := ValidateBlock(block, chain.ZeroHash, 0, balance)
	if ok {
		t.Fatal("a block carrying a malformed reward must not validate")
	}
}

func TestValidateBlockchainExtendsAndAdvancesBalance(t *testing.T) {
	receiver := chain.Sha256([]byte("r"))
	genesisBlock := mineRewardBlock(t, chain.ZeroHash, 1700000000, receiver)

	bc := chain.New()
	genesisHash := bc.Append(genesisBlock)

	next := mineRewardBlock(t, genesisHash, genesisBlock.Header.Timestamp+1, receiver)
	bc.Append(next)

	balance := ledger.InitBalance(chain.Blockchain{Chain: []chain.Hash{genesisHash}, Blocks: bc.Blocks}, nil, nil)

	ok, advanced := ValidateBlockchain(bc, balance)
	if !ok {
		t.Fatal("a validly extended chain must validate")
	}
	if advanced.LatestHash != next.Hash() {
		t.Fatal("a successful validation must advance LatestHash to the new tip")
	}
	if len(advanced.Accounts[receiver]) != 2 {
		t.Fatalf("receiver has %d unspent refs after two rewards, want 2", len(advanced.Accounts[receiver]))
	}
}

func TestValidateBlockchainDoesNotMutateCallerBalanceOnFailure(t *testing.T) {
	receiver := chain.Sha256([]byte("r"))
	genesisBlock := mineRewardBlock(t, chain.ZeroHash, 1700000000, receiver)

	bc := chain.New()
	genesisHash := bc.Append(genesisBlock)

	badNext := mineRewardBlock(t, chain.Sha256([]byte("not genesis")), genesisBlock.Header.Timestamp+1, receiver)
	bc.Chain = append(bc.Chain, badNext.Hash())
	bc.Blocks[badNext.Hash()] = badNext

	balance := ledger.InitBalance(chain.Blockchain{Chain: []chain.Hash{genesisHash}, Blocks: bc.Blocks}, nil, nil)
	originalRefs := len(balance.Accounts[receiver])

	ok, _ := ValidateBlockchain(bc, balance)
	if ok {
		t.Fatal("a chain with a block that does not link to its predecessor must not validate")
	}
	if len(balance.Accounts[receiver]) != originalRefs {
		t.Fatal("a failed validation must never mutate the caller's own balance")
	}
}

func TestValidateBlockchainResumingMidChainUsesTheTipsOwnTimestamp(t *testing.T) {
	receiver := chain.Sha256([]byte("r"))

	genesisBlock := mineRewardBlock(t, chain.ZeroHash, 1700000000, receiver)

	bc := chain.New()
	genesisHash := bc.Append(genesisBlock)

	// second is never revalidated (the balance already covers it), so its
	// timestamp may sit before genesis's.
	second := mineRewardBlock(t, genesisHash, genesisBlock.Header.Timestamp-2, receiver)
	secondHash := bc.Append(second)

	// third's timestamp only satisfies monotonicity against second's own
	// timestamp, not genesis's — if ValidateBlockchain mistakenly looked one
	// block further back when resuming from a mid-chain balance, this would
	// wrongly fail since third's timestamp sits between the two.
	third := mineRewardBlock(t, secondHash, second.Header.Timestamp+1, receiver)
	bc.Append(third)

	prefix := chain.Blockchain{Chain: []chain.Hash{genesisHash, secondHash}, Blocks: bc.Blocks}
	balance := ledger.InitBalance(prefix, nil, nil)

	ok, advanced := ValidateBlockchain(bc, balance)
	if !ok {
		t.Fatal("resuming validation from a mid-chain balance must succeed using that block's own timestamp")
	}
	if advanced.LatestHash != third.Hash() {
		t.Fatal("validation must advance to the chain's actual tip")
	}
}

func TestValidateBlockchainRejectsUnknownLatestHash(t *testing.T) {
	bc := chain.New()
	bc.Append(mineRewardBlock(t, chain.ZeroHash, 1700000000, chain.Sha256([]byte("r"))))

	balance := ledger.Balance{LatestHash: chain.Sha256([]byte("nowhere")), Accounts: make(ledger.Accounts)}

	ok, _ := ValidateBlockchain(bc, balance)
	if ok {
		t.Fatal("a balance whose LatestHash isn't in the chain must not validate")
	}
}
