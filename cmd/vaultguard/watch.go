package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vaultguard-labs/vaultguard-contract/monitor"
	"github.com/vaultguard-labs/vaultguard-contract/rpc/vaultguard"
	"go.uber.org/zap"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Follow VaultGuard events and export metrics",
		Example: "vaultguard watch --contract NfgHwwTi3wHAS8aFAN243C5vGbkYDpqLHP --metrics :9090",
		RunE:    runWatch,
	}

	cmd.Flags().String("metrics", ":9090", "Prometheus metrics listen address, disabled if empty")
	_ = viper.BindPFlag("watch.metrics", cmd.Flags().Lookup("metrics"))

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	b, err := dial(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	if err = b.requireContract(); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := monitor.New(monitor.Prm{
		Logger:     log,
		Subscriber: b.rpc,
		Contract:   b.contract,
		Registerer: reg,
	})
	m.AddHandler(logEvent(log))

	if addr := viper.GetString("watch.metrics"); addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		log.Info("serving metrics", zap.String("address", addr))
	}

	err = m.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func logEvent(log *zap.Logger) monitor.Handler {
	return func(e monitor.Event) {
		fields := []zap.Field{zap.String("event", e.Name), zap.Stringer("tx", e.Container)}

		switch v := e.Value.(type) {
		case *vaultguard.VaultCreatedEvent:
			fields = append(fields, zap.Stringer("vault", v.VaultID), zap.Stringer("owner", v.Owner), zap.Stringer("deposit", v.Deposit))
		case *vaultguard.FundsDepositedEvent:
			fields = append(fields, zap.Stringer("vault", v.VaultID), zap.Stringer("amount", v.Amount))
		case *vaultguard.SubmissionCreatedEvent:
			fields = append(fields, zap.Stringer("submission", v.SubmissionID), zap.Stringer("vault", v.VaultID), zap.Stringer("researcher", v.Researcher))
		case *vaultguard.SubmissionVotedEvent:
			fields = append(fields, zap.Stringer("submission", v.SubmissionID), zap.Stringer("judge", v.Judge), zap.Bool("approved", v.Approved))
		case *vaultguard.SubmissionApprovedEvent:
			fields = append(fields, zap.Stringer("submission", v.SubmissionID), zap.Stringer("payout", v.PayoutAmount))
		case *vaultguard.SubmissionRejectedEvent:
			fields = append(fields, zap.Stringer("submission", v.SubmissionID))
		case *vaultguard.PayoutSentEvent:
			fields = append(fields, zap.Stringer("submission", v.SubmissionID), zap.Stringer("researcher", v.Researcher), zap.Stringer("amount", v.Amount))
		case *vaultguard.VaultClosedEvent:
			fields = append(fields, zap.Stringer("vault", v.VaultID), zap.Stringer("refund", v.Refund))
		case *vaultguard.YieldStrategySetEvent:
			fields = append(fields, zap.Stringer("vault", v.VaultID), zap.Stringer("strategy", v.Strategy))
		}

		log.Info("vaultguard event", fields...)
	}
}
