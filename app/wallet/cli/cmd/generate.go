package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qcbit/blockchain/foundation/blockchain/signature"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new keypair and print its address",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	wallet, err := signature.GenerateWallet()
	if err != nil {
		return fmt.Errorf("generating wallet: %w", err)
	}

	fmt.Printf("address:     %s\n", wallet.Address)
	fmt.Printf("private_key: %s\n", hex.EncodeToString(wallet.PrivateKey.D.Bytes()))

	return nil
}
