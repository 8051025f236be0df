// Package signature is the external key/signature collaborator the core
// ledger is deliberately built against but never imports directly: ECDSA
// key generation over secp256k1, address derivation from a public key, and
// a pure verify(signature, pubkey, message) -> bool primitive. The core
// (package ledger) only ever sees a ledger.VerifyFunc value; Verify below
// is the one this repo wires in at startup.
package signature

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	mathrand "math/rand"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/ledger"
)

// Wallet bundles a keypair with the derived address the core identifies
// it by.
type Wallet struct {
	Address    chain.Address
	PrivateKey *ecdsa.PrivateKey
	PublicKey  *ecdsa.PublicKey
}

// GenerateWallet creates a fresh secp256k1 keypair and derives its address.
func GenerateWallet() (Wallet, error) {
	privateKey, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return Wallet{}, fmt.Errorf("signature: generating key: %w", err)
	}

	return walletFromKey(privateKey), nil
}

func walletFromKey(privateKey *ecdsa.PrivateKey) Wallet {
	publicKey := &privateKey.PublicKey
	return Wallet{
		Address:    AddressFromPublicKey(publicKey),
		PrivateKey: privateKey,
		PublicKey:  publicKey,
	}
}

// AddressFromPublicKey derives a 32-byte Address as the SHA-256 digest of
// the public key's uncompressed point encoding.
func AddressFromPublicKey(pub *ecdsa.PublicKey) chain.Address {
	return chain.Sha256(crypto.FromECDSAPub(pub))
}

// Sign produces a DER-encoded ECDSA signature over the SHA-256 digest of
// message. The core never parses this byte slice; it only passes it back
// through unchanged as Transaction.Signature.
func Sign(privateKey *ecdsa.PrivateKey, message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)

	sig, err := ecdsa.SignASN1(rand.Reader, privateKey, digest[:])
	if err != nil {
		return nil, fmt.Errorf("signature: signing: %w", err)
	}

	return sig, nil
}

// Verify is the pure collaborator function the ledger package is built
// around. pub must be a *ecdsa.PublicKey (the concrete type wallets and
// Keychain entries carry); any other type reports false rather than
// panicking, since the ledger treats keys as wholly opaque.
func Verify(pub ledger.PublicKey, sig, message []byte) bool {
	publicKey, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return false
	}

	digest := sha256.Sum256(message)
	return ecdsa.VerifyASN1(publicKey, digest[:], sig)
}

// ----------------------------------------------------------------------------

// demoSeeds fixes the small integer wallet IDs used by this repo's tests
// and CLI, mirroring the original implementation's load_demo_wallets()
// fixture (wallets keyed 7000, 8000, ...).
var demoSeeds = []int{7000, 8000, 9000}

// LoadDemoWallets deterministically derives the fixed demo wallet set from
// their integer IDs, so that tests and CLI runs reproduce the same
// addresses across processes without needing a key file on disk.
func LoadDemoWallets() map[int]Wallet {
	wallets := make(map[int]Wallet, len(demoSeeds))

	for _, seed := range demoSeeds {
		source := mathrand.New(mathrand.NewSource(int64(seed)))
		d := make([]byte, 32)
		source.Read(d)
		privateKey, err := crypto.ToECDSA(d)
		if err != nil {
			panic(fmt.Sprintf("signature: deriving demo wallet %d: %v", seed, err))
		}

		wallets[seed] = walletFromKey(privateKey)
	}

	return wallets
}
