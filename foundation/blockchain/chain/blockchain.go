package chain

import "fmt"

// Blockchain is the redundant-by-design pair of an ordered list of block
// hashes (O(1) height access, O(n) linear replay) and a hash-to-block map
// (O(1) by-hash lookup). Element 0 of Chain is always genesis.
type Blockchain struct {
	Chain  []Hash
	Blocks map[Hash]Block
}

// New constructs an empty Blockchain ready to receive a genesis block.
func New() Blockchain {
	return Blockchain{
		Blocks: make(map[Hash]Block),
	}
}

// Append adds a block to the end of the chain, recording it under its hash.
func (bc *Blockchain) Append(block Block) Hash {
	hash := block.Hash()
	bc.Chain = append(bc.Chain, hash)
	bc.Blocks[hash] = block
	return hash
}

// BlockAt returns the block at the given chain height.
func (bc Blockchain) BlockAt(height int) (Block, bool) {
	if height < 0 || height >= len(bc.Chain) {
		return Block{}, false
	}
	block, ok := bc.Blocks[bc.Chain[height]]
	return block, ok
}

// IndexOf returns the chain height of the given block hash, or -1.
func (bc Blockchain) IndexOf(hash Hash) int {
	for i, h := range bc.Chain {
		if h == hash {
			return i
		}
	}
	return -1
}

// Encode serializes the full blockchain as the concatenation of its
// encoded blocks, in chain order.
func (bc Blockchain) Encode() ([]byte, error) {
	var out []byte
	for _, hash := range bc.Chain {
		block, ok := bc.Blocks[hash]
		if !ok {
			return nil, fmt.Errorf("chain: block %s missing from block map", hash)
		}
		encoded, err := block.Encode()
		if err != nil {
			return nil, fmt.Errorf("chain: encoding block %s: %w", hash, err)
		}
		out = append(out, encoded...)
	}
	return out, nil
}

// DecodeBlockchain repeatedly reads the 2-byte block_size prefix, decodes
// that block, computes its hash and appends it, until every byte of b has
// been consumed.
func DecodeBlockchain(b []byte) (Blockchain, error) {
	bc := New()

	offset := 0
	for offset < len(b) {
		block, n, err := DecodeBlock(b[offset:])
		if err != nil {
			return Blockchain{}, fmt.Errorf("chain: decoding block at offset %d: %w", offset, err)
		}

		bc.Append(block)
		offset += n
	}

	return bc, nil
}
