package cmd

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/ledger"
	"github.com/qcbit/blockchain/foundation/blockchain/merkle"
	"github.com/qcbit/blockchain/foundation/blockchain/pow"
	"github.com/qcbit/blockchain/foundation/blockchain/signature"
	"github.com/qcbit/blockchain/foundation/blockchain/txrules"
)

var (
	fromSeed int
	toSeed   int
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Mine a demo reward, then craft and sign a transfer spending it",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().IntVarP(&fromSeed, "from", "f", 7000, "Demo wallet seed of the sender.")
	sendCmd.Flags().IntVarP(&toSeed, "to", "t", 8000, "Demo wallet seed of the receiver.")
}

// sendRun demonstrates the full spend path offline: since the protocol's
// fixed genesis block only ever pays genesis.SeedReceiver, this mines a
// throwaway one-block chain rewarding the sender first, then spends that
// reward in a signed transfer to the receiver.
func sendRun(cmd *cobra.Command, args []string) error {
	wallets := signature.LoadDemoWallets()

	from, ok := wallets[fromSeed]
	if !ok {
		return fmt.Errorf("no demo wallet for seed %d", fromSeed)
	}
	to, ok := wallets[toSeed]
	if !ok {
		return fmt.Errorf("no demo wallet for seed %d", toSeed)
	}

	reward := chain.Transaction{
		ReferenceHash: txrules.RewardReferenceHash,
		Sender:        txrules.RewardSender,
		Receiver:      from.Address,
		Signature:     txrules.RewardSignature,
	}

	tree, err := merkle.NewTree([]chain.Transaction{reward})
	if err != nil {
		return fmt.Errorf("building merkle tree: %w", err)
	}

	result, err := pow.Mine(context.Background(), chain.ZeroHash, tree.Root(), 1634700000, nil, nil, nil)
	if err != nil {
		return fmt.Errorf("mining demo block: %w", err)
	}

	block := chain.Block{Header: result.Header, Transactions: []chain.Transaction{reward}}

	bc := chain.New()
	bc.Append(block)

	balance := ledger.InitBalance(bc, nil, signature.Verify)

	_, transfer := ledger.InitTransfer(balance, from.Address, to.Address, nil)
	if transfer == nil {
		return fmt.Errorf("sender has no unspent outputs to transfer")
	}

	message := txrules.TransferMessage(*transfer)
	sig, err := signature.Sign(from.PrivateKey, message)
	if err != nil {
		return fmt.Errorf("signing transfer: %w", err)
	}
	transfer.Signature = sig

	out := struct {
		ReferenceHash string `json:"reference_hash"`
		Sender        string `json:"sender"`
		Receiver      string `json:"receiver"`
		Signature     string `json:"signature"`
	}{
		ReferenceHash: transfer.ReferenceHash.String(),
		Sender:        transfer.Sender.String(),
		Receiver:      transfer.Receiver.String(),
		Signature:     hex.EncodeToString(transfer.Signature),
	}

	enc, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling transfer: %w", err)
	}

	fmt.Println(string(enc))

	return nil
}
