package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	figure "github.com/common-nighthawk/go-figure"
	"go.uber.org/zap"

	"github.com/qcbit/blockchain/app/services/node/handlers"
	"github.com/qcbit/blockchain/app/services/node/state"
	"github.com/qcbit/blockchain/app/services/node/worker"
	"github.com/qcbit/blockchain/foundation/blockchain/genesis"
	"github.com/qcbit/blockchain/foundation/blockchain/ledger"
	"github.com/qcbit/blockchain/foundation/blockchain/signature"
	"github.com/qcbit/blockchain/foundation/logger"
)

// build is the git version of this program, set via build flags.
var build = "develop"

func main() {
	log, err := logger.New("MINICHAIN", "NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
		}
		Mining struct {
			Enabled             bool   `conf:"default:true"`
			BeneficiarySeed     int    `conf:"default:7000"`
			MaxIterationsPerTry uint64 `conf:"default:2000000"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "© minichain contributors",
		},
	}

	const prefix = "MINICHAIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	banner := figure.NewFigure("minichain", "", true)
	banner.Print()

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	wallets := signature.LoadDemoWallets()
	beneficiary, ok := wallets[cfg.Mining.BeneficiarySeed]
	if !ok {
		return fmt.Errorf("no demo wallet for beneficiary seed %d", cfg.Mining.BeneficiarySeed)
	}

	keychain := make(ledger.Keychain, len(wallets))
	for _, w := range wallets {
		keychain[w.Address] = ledger.PublicKey(w.PublicKey)
	}

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...), "traceid", "00000000-0000-0000-0000-000000000000")
	}

	bc := genesis.InitBlockchain(genesis.SeedReceiver)

	st := state.New(state.Config{
		Beneficiary: beneficiary.Address,
		Genesis:     bc,
		Keychain:    keychain,
		Verify:      signature.Verify,
		EvHandler:   ev,
	})
	defer st.Shutdown()

	if cfg.Mining.Enabled {
		w := worker.Run(st, beneficiary.Address, nil, cfg.Mining.MaxIterationsPerTry, ev)
		w.SignalStartMining()
	}

	// =========================================================================
	// Start Public Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	publicMux := handlers.PublicMux(handlers.Config{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
	})

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
