package chain

import (
	"bytes"
	"math/big"
	"testing"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{
		Version:      Version,
		PreviousHash: Sha256([]byte("previous")),
		MerkleRoot:   Sha256([]byte("merkle")),
		Timestamp:    1700000000,
		Nonce:        big.NewInt(123456789),
	}

	encoded := h.Encode()
	if len(encoded) != HeaderSize {
		t.Fatalf("encoded length = %d, want %d", len(encoded), HeaderSize)
	}

	got, err := DecodeHeader(encoded)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}

	if got.Version != h.Version || got.PreviousHash != h.PreviousHash || got.MerkleRoot != h.MerkleRoot || got.Timestamp != h.Timestamp {
		t.Fatalf("decoded header = %+v, want %+v", got, h)
	}
	if got.Nonce.Cmp(h.Nonce) != 0 {
		t.Errorf("decoded nonce = %s, want %s", got.Nonce, h.Nonce)
	}
}

func TestDecodeHeaderRejectsShortBuffer(t *testing.T) {
	if _, err := DecodeHeader(make([]byte, HeaderSize-1)); err != ErrShortBuffer {
		t.Fatalf("err = %v, want ErrShortBuffer", err)
	}
}

func TestHeaderHashIsDeterministic(t *testing.T) {
	h := Header{Version: Version, Nonce: big.NewInt(1)}
	if h.Hash() != h.Hash() {
		t.Fatal("Hash is not deterministic")
	}
}

func TestTransactionEncodeDecodeRoundTrip(t *testing.T) {
	tx := Transaction{
		ReferenceHash: Sha256([]byte("ref")),
		Sender:        Sha256([]byte("sender")),
		Receiver:      Sha256([]byte("receiver")),
		Signature:     bytes.Repeat([]byte{0xab}, 70),
	}

	encoded := tx.Encode()

	got, n, err := DecodeTransaction(encoded)
	if err != nil {
		t.Fatalf("DecodeTransaction: %v", err)
	}
	if n != len(encoded) {
		t.Fatalf("consumed %d bytes, want %d", n, len(encoded))
	}
	if got.ReferenceHash != tx.ReferenceHash || got.Sender != tx.Sender || got.Receiver != tx.Receiver {
		t.Fatalf("decoded = %+v, want %+v", got, tx)
	}
	if !bytes.Equal(got.Signature, tx.Signature) {
		t.Fatalf("decoded signature = %x, want %x", got.Signature, tx.Signature)
	}
}

func TestTransactionWithEmptySignature(t *testing.T) {
	tx := Transaction{ReferenceHash: ZeroHash, Sender: ZeroHash, Receiver: Sha256([]byte("r"))}

	got, n, err := DecodeTransaction(tx.Encode())
	if err != nil {
		t.Fatalf("DecodeTransaction: %v", err)
	}
	if n != len(tx.Encode()) {
		t.Fatalf("consumed %d bytes, want %d", n, len(tx.Encode()))
	}
	if len(got.Signature) != 0 {
		t.Fatalf("signature = %x, want empty", got.Signature)
	}
}

func TestDecodeTransactionsRejectsTrailingBytes(t *testing.T) {
	tx := Transaction{Sender: Sha256([]byte("s")), Receiver: Sha256([]byte("r"))}
	encoded := append(tx.Encode(), 0xff)

	if _, err := DecodeTransactions(1, encoded); err != ErrBadTransactionCount {
		t.Fatalf("err = %v, want ErrBadTransactionCount", err)
	}
}

func TestTransactionHashMatchesReferenceOutputHash(t *testing.T) {
	tx := Transaction{Sender: Sha256([]byte("s")), Receiver: Sha256([]byte("r"))}
	if tx.Hash() != ReferenceOutputHash(tx) {
		t.Fatal("Transaction.Hash() must equal ReferenceOutputHash(tx)")
	}
}

func buildTestBlock(t *testing.T, receiver Hash, n int) Block {
	t.Helper()

	txs := make([]Transaction, 0, n)
	txs = append(txs, Transaction{Sender: ZeroHash, Receiver: receiver})
	for i := 1; i < n; i++ {
		txs = append(txs, Transaction{
			ReferenceHash: Sha256([]byte{byte(i)}),
			Sender:        receiver,
			Receiver:      Sha256([]byte{byte(i), byte(i)}),
			Signature:     []byte{byte(i)},
		})
	}

	return Block{
		Header: Header{
			Version:      Version,
			PreviousHash: ZeroHash,
			MerkleRoot:   Sha256([]byte("root")),
			Timestamp:    1700000000,
			Nonce:        big.NewInt(42),
		},
		Transactions: txs,
	}
}

func TestBlockEncodeDecodeRoundTrip(t *testing.T) {
	block := buildTestBlock(t, Sha256([]byte("beneficiary")), 3)

	encoded, err := block.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, n, err := DecodeBlock(encoded)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if n != len(encoded) {
		t.Fatalf("consumed %d bytes, want %d", n, len(encoded))
	}
	if len(got.Transactions) != len(block.Transactions) {
		t.Fatalf("decoded %d transactions, want %d", len(got.Transactions), len(block.Transactions))
	}
	if got.Hash() != block.Hash() {
		t.Fatal("decoded block hash mismatch")
	}
}

func TestBlockEncodeRejectsEmpty(t *testing.T) {
	block := Block{Header: Header{Nonce: big.NewInt(0)}}
	if _, err := block.Encode(); err != ErrEmptyBlock {
		t.Fatalf("err = %v, want ErrEmptyBlock", err)
	}
}

func TestDecodeBlockRejectsSizeOverflow(t *testing.T) {
	block := buildTestBlock(t, Sha256([]byte("b")), 1)
	encoded, err := block.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	truncated := encoded[:len(encoded)-1]
	if _, _, err := DecodeBlock(truncated); err != ErrBlockSizeOverflow {
		t.Fatalf("err = %v, want ErrBlockSizeOverflow", err)
	}
}

func TestBlockchainAppendAndEncodeRoundTrip(t *testing.T) {
	bc := New()
	b1 := buildTestBlock(t, Sha256([]byte("one")), 1)
	b2 := buildTestBlock(t, Sha256([]byte("two")), 2)
	b2.Header.PreviousHash = b1.Hash()

	h1 := bc.Append(b1)
	h2 := bc.Append(b2)

	if h1 != b1.Hash() || h2 != b2.Hash() {
		t.Fatal("Append returned an unexpected hash")
	}
	if got := bc.IndexOf(h2); got != 1 {
		t.Fatalf("IndexOf = %d, want 1", got)
	}

	encoded, err := bc.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := DecodeBlockchain(encoded)
	if err != nil {
		t.Fatalf("DecodeBlockchain: %v", err)
	}
	if len(got.Chain) != 2 {
		t.Fatalf("decoded chain length = %d, want 2", len(got.Chain))
	}
	if got.Chain[0] != h1 || got.Chain[1] != h2 {
		t.Fatal("decoded chain order mismatch")
	}
}

func TestBlockAtOutOfRange(t *testing.T) {
	bc := New()
	if _, ok := bc.BlockAt(0); ok {
		t.Fatal("BlockAt on empty chain should report false")
	}
}
