package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/ad-recommender/internal/model"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a platform, budget and targeting for one job posting",
	Long: `Recommend an ad platform, daily budget range and targeting hints for a job posting.

Examples:
  # JSON output
  adrec recommend --job-id 42

  # Human-readable table
  adrec recommend --job-id 42 --format table`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		jobID, _ := cmd.Flags().GetInt64("job-id")
		format, _ := cmd.Flags().GetString("format")
		if jobID <= 0 {
			return eris.New("recommend: --job-id must be > 0")
		}
		if format != "json" && format != "table" {
			return eris.Errorf("recommend: --format must be json or table (got %q)", format)
		}

		st, eng, err := initEngine(ctx, "store")
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rec, err := eng.Recommend(ctx, jobID)
		if err != nil {
			return err
		}

		if format == "table" {
			formatRecommendation(os.Stdout, rec)
			return nil
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	f := recommendCmd.Flags()
	f.Int64("job-id", 0, "job posting id")
	f.String("format", "json", "output format: json or table")
	_ = recommendCmd.MarkFlagRequired("job-id")
	rootCmd.AddCommand(recommendCmd)
}

// formatRecommendation writes a human-readable summary of rec.
func formatRecommendation(out io.Writer, rec *model.Recommendation) {
	source := "keyword heuristics (no history)"
	if rec.BasedOnHistorical {
		source = fmt.Sprintf("history of %d similar postings", rec.SimilarJobCount)
	}

	fmt.Fprintf(out, "Job posting:   %d\n", rec.JobPostingID)
	fmt.Fprintf(out, "Best platform: %s (confidence %.0f)\n", rec.BestPlatform, rec.ConfidenceScore)
	fmt.Fprintf(out, "Based on:      %s\n", source)
	fmt.Fprintf(out, "Daily budget:  %d / %d / %d (min / recommended / max)", rec.Budget.Min, rec.Budget.Recommended, rec.Budget.Max)
	if !rec.Budget.IsBasedOnData {
		fmt.Fprint(out, " [defaults]")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPLATFORM\tSCORE\tCONFIDENCE\tREASONS")
	for i, r := range rec.Ranking {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.0f\t%s\n", i+1, r.Platform, r.Score, r.Confidence, strings.Join(r.Reasons, ", "))
	}
	w.Flush() //nolint:errcheck

	t := rec.Targeting
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Interests:     %s\n", joinOrDash(t.Interests))
	fmt.Fprintf(out, "Job titles:    %s\n", joinOrDash(t.JobTitles))
	fmt.Fprintf(out, "Education:     %s\n", joinOrDash(t.EducationLevels))
	fmt.Fprintf(out, "Ages:          %d-%d\n", t.Demographics.AgeMin, t.Demographics.AgeMax)
	if len(rec.SuggestedConfig.TargetSegments) > 0 || rec.SuggestedConfig.Objective != "" {
		fmt.Fprintf(out, "Suggested:     segments %v, objective %s\n", rec.SuggestedConfig.TargetSegments, orDash(rec.SuggestedConfig.Objective))
	}
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
