package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"torq.dev/core/ingress"
)

const (
	exitOK          = 0
	exitConfigError = 1
	exitFailed      = 3
)

func run(args []string, stdout, stderr io.Writer) int {
	exitCode := exitOK

	root := &cobra.Command{
		Use:           "torq-conformance",
		Short:         "run the adapter ingress four-step contract over JSON fixtures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	var outPath string
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "write one canonical known-good swap fixture",
		RunE: func(_ *cobra.Command, _ []string) error {
			enc, err := json.MarshalIndent([]swapFixture{knownGoodFixture()}, "", "  ")
			if err != nil {
				exitCode = exitFailed
				return err
			}
			if outPath == "" {
				_, err = fmt.Fprintln(stdout, string(enc))
				return err
			}
			return os.WriteFile(outPath, enc, 0o644)
		},
	}
	generateCmd.Flags().StringVar(&outPath, "out", "", "file to write fixtures to (default: stdout)")

	var inPath string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "run every fixture in a file through the four-step pipeline",
		RunE: func(_ *cobra.Command, _ []string) error {
			if inPath == "" {
				exitCode = exitConfigError
				return fmt.Errorf("missing required flag: --in")
			}
			data, err := os.ReadFile(inPath)
			if err != nil {
				exitCode = exitConfigError
				return err
			}
			var fixtures []swapFixture
			if err := json.Unmarshal(data, &fixtures); err != nil {
				exitCode = exitConfigError
				return err
			}

			failures := 0
			for i, f := range fixtures {
				raw, err := f.toRaw()
				if err != nil {
					fmt.Fprintf(stdout, "fixture[%d]: FAIL (decode: %v)\n", i, err)
					failures++
					continue
				}
				if _, err := ingress.FourStepValidate(raw); err != nil {
					fmt.Fprintf(stdout, "fixture[%d]: FAIL (%v)\n", i, err)
					failures++
					continue
				}
				fmt.Fprintf(stdout, "fixture[%d]: OK\n", i)
			}
			if failures > 0 {
				exitCode = exitFailed
				return fmt.Errorf("%d/%d fixtures failed", failures, len(fixtures))
			}
			return nil
		},
	}
	validateCmd.Flags().StringVar(&inPath, "in", "", "path to a JSON array of swap fixtures")

	root.AddCommand(generateCmd, validateCmd)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "torq-conformance:", err)
		if exitCode == exitOK {
			exitCode = exitFailed
		}
	}
	return exitCode
}
