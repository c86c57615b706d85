package commands

import (
	"scrutiny/internal/config"
	"scrutiny/internal/dataset"
	"scrutiny/internal/logging"
	"scrutiny/internal/perf"
	"scrutiny/internal/pipeline"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "scrutiny",
	Short: "Scrutiny is an analytics backend for inspecting classifier behavior",
	Long: `Scrutiny partitions a labeled evaluation dataset by class, tag and decision
outcome, producing the per-filter count tables and threshold-sweep curves the
dashboard renders.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Scrutiny starting")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// buildReporter loads the dataset and tag snapshots and wires the reporter.
func buildReporter() (*perf.Reporter, error) {
	store := dataset.NewSplitStore(cfg.Project.ClassNames, cfg.Project.RejectionClass)
	tags := dataset.NewTagStore()

	for _, split := range []dataset.Split{dataset.SplitTrain, dataset.SplitEval} {
		if err := store.Load(cfg.DataPath, split); err != nil {
			return nil, err
		}
		for i := range cfg.Project.Pipelines {
			if err := tags.Load(cfg.DataPath, dataset.TableKey{Split: split, PipelineIndex: i}); err != nil {
				return nil, err
			}
		}
	}

	runner := pipeline.NewRunner(store, cfg.Project.Pipelines)
	return perf.NewReporter(store, tags, runner, perf.Options{
		DataActions: cfg.Project.DataActions,
		SmartTags:   cfg.Project.SmartTags,
		XTicksCount: cfg.Project.XTicksCount,
	})
}
