package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"torq.dev/core/config"
	"torq.dev/core/poolcache"
)

const (
	exitOK          = 0
	exitConfigError = 1
	exitInternal    = 3
)

// unimplementedBackend is the seam spec §4's Non-goals name explicitly: no
// blockchain RPC client ships with this module. Every discovery attempt
// fails immediately so callers fall back to the un-enriched path rather
// than hanging.
type unimplementedBackend struct{}

func (unimplementedBackend) Discover(_ context.Context, pool [20]byte) (poolcache.PoolInfo, error) {
	return poolcache.PoolInfo{}, fmt.Errorf("torq-node: no discovery backend configured for pool %x", pool)
}

func run(args []string, stdout, stderr io.Writer) int {
	var profileFlag, dbPathFlag string
	exitCode := exitOK

	root := &cobra.Command{
		Use:           "torq-node",
		Short:         "boot the pool-state store and pool-metadata cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadProfile(profileFlag)
			if err != nil {
				exitCode = exitConfigError
				return err
			}

			cache, err := poolcache.New(cfg.Validation.PoolDiscovery, unimplementedBackend{}, dbPathFlag)
			if err != nil {
				exitCode = exitInternal
				return err
			}
			defer func() { _ = cache.Close() }()

			if dbPathFlag != "" {
				if err := cache.Load(); err != nil {
					exitCode = exitInternal
					return fmt.Errorf("load pool-metadata snapshot: %w", err)
				}
			}

			fmt.Fprintf(stdout, "torq-node: ready (profile=%s pool_db=%q)\n", cfg.Profile, dbPathFlag)
			return nil
		},
	}
	root.Flags().StringVar(&profileFlag, "profile", "default", "validation profile: default|production|development")
	root.Flags().StringVar(&dbPathFlag, "pool-db", "", "bbolt path for the pool-metadata snapshot (empty = in-memory only)")
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "torq-node:", err)
		if exitCode == exitOK {
			exitCode = exitInternal
		}
	}
	return exitCode
}
