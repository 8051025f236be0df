// Command wallet is the demo wallet CLI, one subcommand per operation: it
// generates keypairs, runs a bounded proof-of-work search, and crafts and
// signs transfers against a local demo chain, printing the transfer as
// JSON.
package main

import (
	"fmt"
	"os"

	"github.com/qcbit/blockchain/app/wallet/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
