// Package main is the entry point for the shipment-optimizer command.
//
// The run command replays an input file of ships and containers round by
// round, the generate command writes a random input file and the rounds
// command lists rounds stored by earlier runs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/guttosm/shipment-optimizer/config"
	"github.com/guttosm/shipment-optimizer/internal/app"
	"github.com/guttosm/shipment-optimizer/internal/domain/model"
	"github.com/guttosm/shipment-optimizer/internal/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found (using environment variables)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "shipment-optimizer",
		Short:         "Place containers on ships round by round",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")

	load := func() (config.Config, error) {
		return config.LoadFile(configPath)
	}

	root.AddCommand(
		newRunCommand(load),
		newGenerateCommand(),
		newRoundsCommand(load),
	)
	return root
}

func newRunCommand(load func() (config.Config, error)) *cobra.Command {
	var (
		input       string
		algorithm   string
		seed        uint64
		maxShips    int
		generations int
		population  int
		survivors   int
		mutation    float64
		textfile    string
		store       bool
		logLevel    string
		pretty      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate every round of an input file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.Simulation.InputPath = input
			}
			if flags.Changed("algorithm") {
				cfg.Optimizer.Algorithm = algorithm
			}
			if flags.Changed("seed") {
				cfg.Optimizer.Seed = seed
			}
			if flags.Changed("max-ships") {
				cfg.Simulation.MaxAvailableShips = maxShips
			}
			if flags.Changed("generations") {
				cfg.Optimizer.Generations = generations
			}
			if flags.Changed("population") {
				cfg.Optimizer.PopulationSize = population
			}
			if flags.Changed("survivors") {
				cfg.Optimizer.Survivors = survivors
			}
			if flags.Changed("mutation") {
				cfg.Optimizer.MutationProbability = mutation
			}
			if flags.Changed("metrics-textfile") {
				cfg.Metrics.Textfile = textfile
			}
			if flags.Changed("store") {
				cfg.Database.Enabled = store
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if flags.Changed("pretty") {
				cfg.Log.Pretty = pretty
			}

			_, err = app.Run(cmd.Context(), cfg, cmd.OutOrStdout())
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "input file with ship and container records")
	f.StringVarP(&algorithm, "algorithm", "a", "", "optimizer: fast, greedy or genetic (or 1, 2, 3)")
	f.Uint64Var(&seed, "seed", 0, "random seed, 0 picks one")
	f.IntVar(&maxShips, "max-ships", 0, "maximum number of ships available in a round")
	f.IntVar(&generations, "generations", 0, "genetic generations per ship")
	f.IntVar(&population, "population", 0, "genetic base population size")
	f.IntVar(&survivors, "survivors", 0, "genetic survivors per generation")
	f.Float64Var(&mutation, "mutation", 0, "genetic mutation probability")
	f.StringVar(&textfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	f.BoolVar(&store, "store", false, "store rounds in MongoDB")
	f.StringVar(&logLevel, "log-level", "", "log level")
	f.BoolVar(&pretty, "pretty", false, "human readable logs")
	return cmd
}

func newGenerateCommand() *cobra.Command {
	var (
		output string
		seed   uint64
	)
	cfg := service.DefaultGeneratorConfig()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random input file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" || output == "-" {
				return app.Generate(cmd.OutOrStdout(), cfg, seed)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := app.Generate(f, cfg, seed); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	f.Uint64Var(&seed, "seed", 0, "random seed, 0 picks one")
	f.IntVar(&cfg.Containers, "containers", cfg.Containers, "number of containers")
	f.IntVar(&cfg.Ships, "ships", cfg.Ships, "number of ships")
	f.IntVar(&cfg.Timestamps, "timestamps", cfg.Timestamps, "number of distinct timestamps")
	return cmd
}

type roundsOutput struct {
	Total  int64               `json:"total"`
	Rounds []model.RoundReport `json:"rounds"`
}

func newRoundsCommand(load func() (config.Config, error)) *cobra.Command {
	var opts model.RoundQueryOptions

	cmd := &cobra.Command{
		Use:   "rounds",
		Short: "List stored rounds as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			cfg.Database.Enabled = true

			rounds, total, err := app.QueryRounds(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			if rounds == nil {
				rounds = []model.RoundReport{}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(roundsOutput{Total: total, Rounds: rounds})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.RunID, "run-id", "", "only rounds of this run")
	f.StringVar(&opts.Algorithm, "algorithm", "", "only rounds of this algorithm")
	f.IntVar(&opts.Limit, "limit", 50, "maximum number of rounds")
	f.IntVar(&opts.Skip, "skip", 0, "number of rounds to skip")
	return cmd
}
