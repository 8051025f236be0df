package handlers

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/qcbit/blockchain/app/services/node/state"
	"github.com/qcbit/blockchain/foundation/blockchain/chain"
	"github.com/qcbit/blockchain/foundation/blockchain/nameservice"
	"github.com/qcbit/blockchain/foundation/web"
)

// handlers groups the node's route methods with their dependencies.
type handlers struct {
	log   *zap.SugaredLogger
	state *state.State
	names *nameservice.NameService
}

var validate = validator.New()

// genesis returns the chain's genesis block.
func (h handlers) genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, ok := h.state.Genesis()
	if !ok {
		return web.NewRequestError(fmt.Errorf("genesis block not found"), http.StatusNotFound)
	}

	return web.Respond(ctx, w, toBlockResponse(block), http.StatusOK)
}

// accounts returns unspent-output counts for every address or, when an
// address is named in the path, that address's unspent reference hashes.
func (h handlers) accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addrHex := web.Param(r, "address")

	if addrHex == "" {
		counts := h.state.Accounts()
		resp := make([]accountSummary, 0, len(counts))
		for addr, n := range counts {
			resp = append(resp, accountSummary{
				Address:    addr.String(),
				Name:       h.names.Lookup(addr),
				UnspentRef: n,
			})
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}

	addr, err := chain.HashFromHex(addrHex)
	if err != nil {
		return web.NewRequestError(fmt.Errorf("invalid address: %w", err), http.StatusBadRequest)
	}

	refs := h.state.AccountRefs(addr)
	resp := make([]string, len(refs))
	for i, ref := range refs {
		resp[i] = ref.String()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// accountSummary is the wire shape of one entry in the accounts listing.
type accountSummary struct {
	Address    string `json:"address"`
	Name       string `json:"name"`
	UnspentRef int    `json:"unspent_ref_count"`
}

// chainHeight returns the node's current chain height.
func (h handlers) chainHeight(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Height int `json:"height"`
	}{
		Height: h.state.ChainHeight(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// transferRequest is the wire shape a wallet posts to submit a transfer.
// The validator tags are a structural front-gate: they catch a malformed
// payload before it ever reaches ledger.ValidateTransaction, which is the
// only place signature and double-spend checks happen.
type transferRequest struct {
	ReferenceHash string `json:"reference_hash" validate:"required,len=64,hexadecimal"`
	Sender        string `json:"sender"         validate:"required,len=64,hexadecimal"`
	Receiver      string `json:"receiver"       validate:"required,len=64,hexadecimal,nefield=Sender"`
	Signature     string `json:"signature"       validate:"omitempty,hexadecimal"`
}

// submitTransfer decodes and structurally validates a transfer. This node
// carries no mempool (an explicit non-goal): a submitted transfer is
// acknowledged here but is not itself queued for mining — a deployment
// wanting transfers mined needs a PendingTransfers source wired into the
// worker, which this demo node does not provide.
func (h handlers) submitTransfer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req transferRequest
	if err := web.Decode(r, &req); err != nil {
		return web.NewRequestError(fmt.Errorf("decoding payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Struct(req); err != nil {
		return web.NewRequestError(fmt.Errorf("invalid transfer payload: %w", err), http.StatusBadRequest)
	}

	sender, err := chain.HashFromHex(req.Sender)
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}
	receiver, err := chain.HashFromHex(req.Receiver)
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}
	if _, err := hex.DecodeString(req.Signature); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	v, _ := web.GetValues(ctx)
	h.log.Infow("transfer submitted", "traceid", v.TraceID, "sender", sender, "receiver", receiver)

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "accepted, not queued for mining",
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

type blockResponse struct {
	Hash         string `json:"hash"`
	PreviousHash string `json:"previous_hash"`
	MerkleRoot   string `json:"merkle_root"`
	Timestamp    uint32 `json:"timestamp"`
	Transactions int    `json:"transaction_count"`
}

func toBlockResponse(b chain.Block) blockResponse {
	return blockResponse{
		Hash:         b.Hash().String(),
		PreviousHash: b.Header.PreviousHash.String(),
		MerkleRoot:   b.Header.MerkleRoot.String(),
		Timestamp:    b.Header.Timestamp,
		Transactions: len(b.Transactions),
	}
}
