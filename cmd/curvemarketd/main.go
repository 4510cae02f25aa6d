// curvemarketd runs the curve marketplace as a standalone daemon: sqlite
// persistence, the bundled ownership registry and value ledger, the fee
// relay loop and the HTTP/websocket API.
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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"curvemarket/kvstore"
	"curvemarket/market"
	"curvemarket/relay"
	"curvemarket/server"
)

func main() {
	// optional .env for local overrides, ignored when absent
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "curvemarketd",
		Short:         "bonding-curve issuance and marketplace daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "curvemarket.yaml", "path to the yaml config")

	root.AddCommand(serveCmd(&configPath), initConfigCmd(&configPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(*configPath); err == nil {
				return fmt.Errorf("%s already exists", *configPath)
			}
			return market.DefaultConfig().Save(*configPath)
		},
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the marketplace daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
				With().Timestamp().Logger()

			cfg, err := market.LoadConfig(*configPath)
			if err != nil {
				if !os.IsNotExist(err) {
					return err
				}
				log.Warn().Str("path", *configPath).Msg("no config file, running on defaults")
			}
			params, err := cfg.Params()
			if err != nil {
				return err
			}

			store, err := kvstore.OpenSQLite(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			assets := market.NewKVOwnership(store)
			ledger := market.NewKVLedger(store)

			hub := server.NewHub(log)
			sink := server.MultiSink{server.LogSink{Log: log}, hub}

			registry := prometheus.NewRegistry()
			metrics := market.PrometheusMetrics(registry)

			engine, err := market.Open(store, assets, ledger, sink, metrics, params)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.RelayIntervalSec > 0 {
				source := relayFeeSource(ledger, params.Treasury)
				r := relay.New(engine, source, "system:fee-relay",
					time.Duration(cfg.RelayIntervalSec)*time.Second, log)
				go r.Run(ctx)
			}

			srv := &http.Server{
				Addr:    cfg.ListenAddr,
				Handler: server.New(engine, hub, ledger, registry, log).Handler(),
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Info().Str("addr", cfg.ListenAddr).Str("db", cfg.DBPath).Msg("curvemarketd up")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

// relayFeeSource drains the treasury account back into the minting pool each
// cycle, which closes the loop for a self-contained local deployment: trading
// fees land in the treasury and re-fund issuance. Real deployments plug in a
// FeeSource reading their actual fee stream.
func relayFeeSource(ledger *market.KVLedger, treasury market.Address) relay.FeeSource {
	return relay.FeeSourceFunc(func() (market.Amount, error) {
		bal, err := ledger.BalanceOf(treasury)
		if err != nil || bal <= 0 {
			return 0, err
		}
		tx := ledger.Begin()
		if err := tx.Draw(treasury, bal); err != nil {
			tx.Discard()
			return 0, err
		}
		if err := tx.Transfer("system:fee-relay", bal); err != nil {
			tx.Discard()
			return 0, err
		}
		if err := tx.Commit(); err != nil {
			return 0, err
		}
		return bal, nil
	})
}
