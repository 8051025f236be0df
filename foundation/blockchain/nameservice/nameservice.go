// Package nameservice maps demo wallet addresses back to human-readable
// names. Wallets are derived in-process (signature.LoadDemoWallets),
// so there is no on-disk key directory to walk.
package nameservice

import (
	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/signature"
)

// names fixes a label for each demo wallet seed, in load order.
var names = map[int]string{
	7000: "alice",
	8000: "bob",
	9000: "carol",
}

// NameService maintains a map of addresses for name lookup.
type NameService struct {
	accounts map[chain.Address]string
}

// New builds a NameService over the fixed demo wallet set.
func New() *NameService {
	ns := NameService{
		accounts: make(map[chain.Address]string),
	}

	for seed, wallet := range signature.LoadDemoWallets() {
		name, ok := names[seed]
		if !ok {
			continue
		}
		ns.accounts[wallet.Address] = name
	}

	return &ns
}

// Lookup returns the name for the given address, or its hex string when
// the address has no known name.
func (ns *NameService) Lookup(address chain.Address) string {
	name, exists := ns.accounts[address]
	if !exists {
		return address.String()
	}
	return name
}

// Copy returns a copy of the NameService's address-to-name map.
func (ns *NameService) Copy() map[chain.Address]string {
	accounts := make(map[chain.Address]string, len(ns.accounts))
	for account, name := range ns.accounts {
		accounts[account] = name
	}
	return accounts
}
