package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"torq.dev/core/config"
	"torq.dev/core/logging"
	"torq.dev/core/relay"
	"torq.dev/core/wire"
)

// Exit codes per spec §6.5.
const (
	exitOK            = 0
	exitConfigError   = 1
	exitBindFailure   = 2
	exitInternalError = 3
)

// run is the testable entrypoint (teacher idiom: node/main.go's
// cmdXMain(argv) int family, generalized here to a single cobra command
// with an explicit stdout/stderr so tests never touch the real console).
func run(args []string, stdout, stderr io.Writer) int {
	var domainFlag, profileFlag, socketOverride string
	exitCode := exitOK

	root := &cobra.Command{
		Use:           "torq-relay",
		Short:         "run one domain relay",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			domain, err := parseDomainFlag(domainFlag)
			if err != nil {
				exitCode = exitConfigError
				return err
			}
			cfg, err := config.LoadProfile(profileFlag)
			if err != nil {
				exitCode = exitConfigError
				return err
			}
			log := logging.New(stderr, cfg.LogLevel)

			socketPath := domain.SocketPath()
			if socketOverride != "" {
				socketPath = socketOverride
			}
			_ = os.Remove(socketPath)
			listener, err := net.Listen("unix", socketPath)
			if err != nil {
				exitCode = exitBindFailure
				return fmt.Errorf("bind %s: %w", socketPath, err)
			}

			server := relay.NewServer(relay.LogicFor(domain), cfg.Validation, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			serveErrCh := make(chan error, 1)
			go func() { serveErrCh <- server.Serve(ctx, listener) }()

			<-ctx.Done()
			if err := server.Shutdown(context.Background()); err != nil {
				exitCode = exitInternalError
				return fmt.Errorf("shutdown: %w", err)
			}
			if serveErr := <-serveErrCh; serveErr != nil && serveErr != context.Canceled {
				log.WithField("err", serveErr).Warn("relay: serve returned after shutdown")
			}

			fmt.Fprintf(stdout, "torq-relay: %s relay stopped cleanly\n", domain.String())
			return nil
		},
	}
	root.Flags().StringVar(&domainFlag, "domain", "", "relay domain: market-data|signal|execution|system")
	root.Flags().StringVar(&profileFlag, "profile", "default", "validation profile: default|production|development")
	root.Flags().StringVar(&socketOverride, "socket", "", "override the domain's canonical socket path")
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "torq-relay:", err)
		if exitCode == exitOK {
			exitCode = exitInternalError
		}
	}
	return exitCode
}

func parseDomainFlag(v string) (wire.RelayDomain, error) {
	switch v {
	case "market-data":
		return wire.DomainMarketData, nil
	case "signal":
		return wire.DomainSignal, nil
	case "execution":
		return wire.DomainExecution, nil
	case "system":
		return wire.DomainSystem, nil
	default:
		return 0, fmt.Errorf("unknown --domain %q (want market-data|signal|execution|system)", v)
	}
}
