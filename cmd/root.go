package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ad-recommender/internal/config"
	"github.com/sells-group/ad-recommender/internal/recommend"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "adrec",
	Short: "Ad platform, budget and targeting recommendations for job postings",
	Long:  "Ranks ad platforms for a job posting from the historical performance of similar postings, falling back to title keyword heuristics when there is no history, and suggests a daily budget and audience targeting.",
	// Usage is noise for runtime failures such as a missing job posting.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if err := setup(c); err != nil {
			return err
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		_ = zap.L().Sync()
	},
}

// setup rejects an inconsistent engine configuration before any command
// touches the store, then installs the global logger.
func setup(c *config.Config) error {
	if err := recommend.ValidateConfig(c.Engine); err != nil {
		return eris.Wrap(err, "engine config")
	}
	if err := config.InitLogger(c.Log); err != nil {
		return eris.Wrap(err, "init logger")
	}
	zap.L().Debug("config loaded",
		zap.String("store_driver", c.Store.Driver),
		zap.Int("similarity_max_results", c.Engine.Similarity.MaxResults),
		zap.Int("window_days", c.Engine.Aggregation.WindowDays),
	)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
