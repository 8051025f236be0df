package chain

import (
	"errors"
	"fmt"
)

// ErrEmptyBlock is returned when a block with no transactions is encoded
// or decoded; every block must carry at least its reward transaction.
var ErrEmptyBlock = errors.New("chain: block must contain at least one transaction")

// ErrBlockSizeOverflow is returned when a block's declared size field
// would read past the end of the supplied buffer.
var ErrBlockSizeOverflow = errors.New("chain: block_size overshoots buffer")

// Block groups a mined Header with the ordered transactions it commits to
// via header.MerkleRoot. Transaction 0 is always the block reward.
type Block struct {
	Header       Header
	Transactions []Transaction
}

// Encode serializes the block as
// block_size(2) || header(101) || transaction_count(1) || transactions...
// block_size counts itself and everything that follows in this block, so a
// stream reader can skip to the next block without parsing the payload.
func (b Block) Encode() ([]byte, error) {
	if len(b.Transactions) == 0 {
		return nil, ErrEmptyBlock
	}
	if len(b.Transactions) > 0xff {
		return nil, fmt.Errorf("chain: block carries %d transactions, max 255", len(b.Transactions))
	}

	headerBytes := b.Header.Encode()

	txBytes := make([]byte, 0)
	for _, tx := range b.Transactions {
		txBytes = append(txBytes, tx.Encode()...)
	}

	blockSize := 2 + len(headerBytes) + 1 + len(txBytes)

	buf := make([]byte, 0, blockSize)
	buf = append(buf, byte(blockSize>>8), byte(blockSize))
	buf = append(buf, headerBytes...)
	buf = append(buf, byte(len(b.Transactions)))
	buf = append(buf, txBytes...)

	return buf, nil
}

// DecodeBlock decodes a single block from the head of b and returns it
// along with the number of bytes consumed (its block_size).
func DecodeBlock(b []byte) (Block, int, error) {
	if len(b) < 2 {
		return Block{}, 0, ErrShortBuffer
	}

	blockSize := int(b[0])<<8 | int(b[1])
	if blockSize > len(b) {
		return Block{}, 0, ErrBlockSizeOverflow
	}

	if blockSize < 2+HeaderSize+1 {
		return Block{}, 0, ErrShortBuffer
	}

	header, err := DecodeHeader(b[2 : 2+HeaderSize])
	if err != nil {
		return Block{}, 0, fmt.Errorf("chain: decoding header: %w", err)
	}

	txCount := int(b[2+HeaderSize])
	txBytes := b[2+HeaderSize+1 : blockSize]

	transactions, err := DecodeTransactions(txCount, txBytes)
	if err != nil {
		return Block{}, 0, fmt.Errorf("chain: decoding transactions: %w", err)
	}

	return Block{Header: header, Transactions: transactions}, blockSize, nil
}

// Hash returns the block's identity hash, double_sha256(encode(header)).
func (b Block) Hash() Hash {
	return b.Header.Hash()
}
