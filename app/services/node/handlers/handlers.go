// Package handlers binds the node's read-only HTTP query surface:
// genesis info, per-account unspent-output counts, submitted-transfer
// validation, and chain height. The core consensus/ledger packages have
// no notion of HTTP; this package is the thin wrapper spec.md §1 allows
// to exist outside of them.
package handlers

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/qcbit/blockchain/app/services/node/state"
	"github.com/qcbit/blockchain/foundation/blockchain/nameservice"
	"github.com/qcbit/blockchain/foundation/web"
)

// Config carries the dependencies every route handler needs.
type Config struct {
	Shutdown chan os.Signal
	Log      *zap.SugaredLogger
	State    *state.State
}

// PublicMux builds the mux for the node's public query and submission API.
func PublicMux(cfg Config) http.Handler {
	app := web.NewApp(cfg.Shutdown)

	h := handlers{log: cfg.Log, state: cfg.State, names: nameservice.New()}

	const v1 = "v1"
	app.Handle(http.MethodGet, v1, "/genesis", h.genesis)
	app.Handle(http.MethodGet, v1, "/accounts", h.accounts)
	app.Handle(http.MethodGet, v1, "/accounts/:address", h.accounts)
	app.Handle(http.MethodGet, v1, "/chain/height", h.chainHeight)
	app.Handle(http.MethodPost, v1, "/transfer/submit", h.submitTransfer)

	return app
}
