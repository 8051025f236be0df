package merkle

import (
	"testing"

	"github.com/qcbit/blockchain/foundation/blockchain/chain"
)

type testLeaf chain.Hash

func (l testLeaf) Hash() chain.Hash {
	return chain.Hash(l)
}

func leaf(b byte) testLeaf {
	return testLeaf(chain.Sha256([]byte{b}))
}

func TestNewTreeRejectsEmpty(t *testing.T) {
	if _, err := NewTree([]testLeaf{}); err != ErrNoLeaves {
		t.Fatalf("err = %v, want ErrNoLeaves", err)
	}
}

func TestSingleLeafTreeRootIsLeafHash(t *testing.T) {
	l := leaf(1)
	tree, err := NewTree([]testLeaf{l})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	if tree.Root() != l.Hash() {
		t.Fatal("single-leaf root must equal the leaf's own hash")
	}
}

func TestEvenLeafCountPairsWithoutDuplication(t *testing.T) {
	a, b := leaf(1), leaf(2)
	tree, err := NewTree([]testLeaf{a, b})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	combined := make([]byte, 0, chain.HashSize*2)
	ah, bh := a.Hash(), b.Hash()
	combined = append(combined, ah[:]...)
	combined = append(combined, bh[:]...)
	want := chain.DoubleSha256(combined)

	if tree.Root() != want {
		t.Fatalf("root = %s, want %s", tree.Root(), want)
	}
}

func TestOddLeafCountDuplicatesLast(t *testing.T) {
	a, b, c := leaf(1), leaf(2), leaf(3)

	odd, err := NewTree([]testLeaf{a, b, c})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	even, err := NewTree([]testLeaf{a, b, c, c})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	if odd.Root() != even.Root() {
		t.Fatal("an odd leaf count must duplicate the last leaf, matching the equivalent even-count tree")
	}
}

func TestTreeOrderSensitivity(t *testing.T) {
	a, b := leaf(1), leaf(2)

	forward, err := NewTree([]testLeaf{a, b})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	backward, err := NewTree([]testLeaf{b, a})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	if forward.Root() == backward.Root() {
		t.Fatal("leaf order must affect the root")
	}
}

func TestValuesReturnsOriginalLeaves(t *testing.T) {
	leaves := []testLeaf{leaf(1), leaf(2), leaf(3)}
	tree, err := NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	got := tree.Values()
	if len(got) != len(leaves) {
		t.Fatalf("len(Values()) = %d, want %d", len(got), len(leaves))
	}
	for i := range leaves {
		if got[i] != leaves[i] {
			t.Fatalf("Values()[%d] = %v, want %v", i, got[i], leaves[i])
		}
	}
}
