package commands

import (
	"encoding/json"
	"os"

	"scrutiny/internal/dataset"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	reportSplit                 string
	reportPipelineIndex         int
	reportTicks                 int
	reportWithoutPostprocessing bool
)

var reportCmd = &cobra.Command{
	Use:       "report {outcome-per-filter | outcome-per-threshold | utterance-per-filter}",
	Short:     "Print one report as JSON to stdout",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"outcome-per-filter", "outcome-per-threshold", "utterance-per-filter"},
	RunE: func(cmd *cobra.Command, args []string) error {
		split, err := dataset.ParseSplit(reportSplit)
		if err != nil {
			return err
		}
		reporter, err := buildReporter()
		if err != nil {
			return err
		}

		var result any
		switch args[0] {
		case "outcome-per-filter":
			result, err = reporter.OutcomeCountPerFilter(split, reportPipelineIndex, reportWithoutPostprocessing)
		case "outcome-per-threshold":
			result, err = reporter.OutcomeCountPerThreshold(cmd.Context(), split, reportPipelineIndex, reportTicks)
		case "utterance-per-filter":
			result, err = reporter.UtteranceCountPerFilter(split, reportPipelineIndex)
		default:
			return eris.Errorf("unknown report %q", args[0])
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportSplit, "split", string(dataset.SplitEval), "dataset split (train or eval)")
	reportCmd.Flags().IntVar(&reportPipelineIndex, "pipeline-index", 0, "pipeline to report on")
	reportCmd.Flags().IntVar(&reportTicks, "ticks", 0, "threshold sweep tick count (default from config)")
	reportCmd.Flags().BoolVar(&reportWithoutPostprocessing, "without-postprocessing", false, "use raw model outcomes instead of postprocessed ones")
	rootCmd.AddCommand(reportCmd)
}
