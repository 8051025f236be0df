package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/merkle"
	"github.com/qcbit/blockchain/foundation/blockchain/pow"
	"github.com/qcbit/blockchain/foundation/blockchain/signature"
	"github.com/qcbit/blockchain/foundation/blockchain/txrules"
)

var (
	mineBeneficiarySeed int
	mineMaxAttempts     uint64
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Run a single bounded proof-of-work search for a reward block",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().IntVarP(&mineBeneficiarySeed, "beneficiary", "b", 7000, "Demo wallet seed to reward.")
	mineCmd.Flags().Uint64VarP(&mineMaxAttempts, "max-attempts", "m", 5_000_000, "Attempts per resumable try.")
}

func mineRun(cmd *cobra.Command, args []string) error {
	wallets := signature.LoadDemoWallets()

	beneficiary, ok := wallets[mineBeneficiarySeed]
	if !ok {
		return fmt.Errorf("no demo wallet for seed %d", mineBeneficiarySeed)
	}

	reward := chain.Transaction{
		ReferenceHash: txrules.RewardReferenceHash,
		Sender:        txrules.RewardSender,
		Receiver:      beneficiary.Address,
		Signature:     txrules.RewardSignature,
	}

	tree, err := merkle.NewTree([]chain.Transaction{reward})
	if err != nil {
		return fmt.Errorf("building merkle tree: %w", err)
	}

	ev := func(v string, a ...any) {
		fmt.Printf(v+"\n", a...)
	}

	var nonce *big.Int
	for attempt := 1; ; attempt++ {
		result, err := pow.Mine(context.Background(), chain.ZeroHash, tree.Root(), 1634700000, nonce, &mineMaxAttempts, ev)
		if err != nil {
			return fmt.Errorf("mining: %w", err)
		}

		if result.Found {
			fmt.Printf("found after %d tries: header_hash=%s nonce=%s beneficiary=%s\n",
				attempt, result.HeaderHash, result.Nonce, beneficiary.Address)
			return nil
		}

		nonce = result.Nonce
		fmt.Printf("try %d exhausted, resuming from nonce=%s\n", attempt, result.Nonce)
	}
}
