// Command cnc is the CNC engine's CLI entrypoint, matching spec §6's
// surface exactly: load a network, a backgrounds stream set and an inputs
// stream set, run two configure passes (backgrounds, then backgrounds+
// inputs), and print each pass's summary. Exit code 0 even when a pass
// reports tsn_schedule_fail — the heuristic reports, it does not enforce
// (spec §7).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cnc-tsn/cnclog"
	"github.com/katalvlaran/cnc-tsn/engine"
	"github.com/katalvlaran/cnc-tsn/ioformats"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var networkPath, backgroundsPath, inputsPath, configPath string
	var fold uint32

	cmd := &cobra.Command{
		Use:   "cnc",
		Short: "Centralized Network Configuration engine for a mixed TSN/AVB bridged network",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), runArgs{
				networkPath:     networkPath,
				backgroundsPath: backgroundsPath,
				inputsPath:      inputsPath,
				configPath:      configPath,
				fold:            fold,
			})
		},
	}

	cmd.Flags().StringVar(&networkPath, "network", "", "path to the network topology YAML file (required)")
	cmd.Flags().StringVar(&backgroundsPath, "backgrounds", "", "path to the background streams YAML file (required)")
	cmd.Flags().StringVar(&inputsPath, "inputs", "", "path to the inputs streams YAML file (required)")
	cmd.Flags().Uint32Var(&fold, "fold", 1, "replicate the backgrounds/inputs stream lists this many times")
	cmd.Flags().StringVar(&configPath, "config", "", "path to the run config YAML file (required)")
	for _, name := range []string{"network", "backgrounds", "inputs", "config"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

type runArgs struct {
	networkPath, backgroundsPath, inputsPath, configPath string
	fold                                                 uint32
}

// run loads every input file (fatal on any parse/file error, per spec §7),
// then drives the two configure passes spec §6 mandates.
func run(ctx context.Context, args runArgs) error {
	log := cnclog.New()

	g, err := ioformats.LoadNetwork(args.networkPath)
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}

	cfg, err := ioformats.LoadConfig(args.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	backgroundTSNs, backgroundAVBs, err := ioformats.LoadStreams(args.backgroundsPath, args.fold)
	if err != nil {
		return fmt.Errorf("load backgrounds: %w", err)
	}

	inputTSNs, inputAVBs, err := ioformats.LoadStreams(args.inputsPath, args.fold)
	if err != nil {
		return fmt.Errorf("load inputs: %w", err)
	}

	eng := engine.New(g, cfg, log)

	backgroundSummary, err := eng.Configure(ctx, backgroundTSNs, backgroundAVBs)
	if err != nil {
		return fmt.Errorf("configure pass 1 (backgrounds): %w", err)
	}
	printSummary(backgroundSummary)

	inputSummary, err := eng.Configure(ctx, inputTSNs, inputAVBs)
	if err != nil {
		return fmt.Errorf("configure pass 2 (inputs): %w", err)
	}
	printSummary(inputSummary)

	return nil
}
