// Package report renders pipeline run artifacts for terminal output and
// exports them as files for downstream consumers.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/pipeline"
)

// splitOrder fixes the display order of evaluation splits.
var splitOrder = []string{pipeline.SplitPrimary, pipeline.SplitSecondary, pipeline.SplitAll}

// topTeamsShown caps how many rating rows the console report prints.
const topTeamsShown = 25

// GenerateConsoleReport formats a pipeline run for terminal output
func GenerateConsoleReport(result *pipeline.Result) string {
	var builder strings.Builder
	builder.WriteString("Rating Run Report\n")
	builder.WriteString("=================\n")
	builder.WriteString(fmt.Sprintf("Run ID: %s\n", result.RunID))
	builder.WriteString(fmt.Sprintf("Season: %d\n", result.RatingTable.Season))
	builder.WriteString(fmt.Sprintf("Teams Rated: %d\n", len(result.RatingTable.Ratings)))
	builder.WriteString(fmt.Sprintf("Home Field Advantage: %.2f\n", result.RatingTable.HFA))
	builder.WriteString(fmt.Sprintf("Lambda: %.4g\n", result.RatingTable.Lambda))
	builder.WriteString("\n")

	writeLambdaSection(&builder, result)
	writeBlendSection(&builder, result)
	writeSplitSection(&builder, result)
	writeBaselineSection(&builder, result)
	writeRatingSection(&builder, result)

	verdict := "NOT DEPLOYABLE"
	if result.Report.Deployable {
		verdict = "DEPLOYABLE"
	}
	builder.WriteString(fmt.Sprintf("Verdict: %s\n", verdict))
	return builder.String()
}

func writeLambdaSection(builder *strings.Builder, result *pipeline.Result) {
	if len(result.LambdaResults) == 0 {
		return
	}
	builder.WriteString("Lambda Cross-Validation\n")
	builder.WriteString("-----------------------\n")
	for _, r := range result.LambdaResults {
		marker := ""
		if r.Lambda == result.RatingTable.Lambda {
			marker = "  <- selected"
		}
		builder.WriteString(fmt.Sprintf("  lambda=%-8.4g mean_pearson=%.4f folds=%d skipped=%d%s\n",
			r.Lambda, r.MeanPearson, r.Folds, r.SkippedFolds, marker))
	}
	builder.WriteString("\n")
}

func writeBlendSection(builder *strings.Builder, result *pipeline.Result) {
	bc := result.BlendConfig
	builder.WriteString("Blend\n")
	builder.WriteString("-----\n")
	builder.WriteString(fmt.Sprintf("  Optimal Weight: %.2f\n", bc.OptimalWeight))
	var flags []string
	if bc.FloorForced {
		flags = append(flags, "floor_forced")
	}
	if bc.Suspect {
		flags = append(flags, "suspect")
	}
	if bc.SanityFailed {
		flags = append(flags, "sanity_failed")
	}
	if len(flags) > 0 {
		builder.WriteString(fmt.Sprintf("  Flags: %s\n", strings.Join(flags, ", ")))
	}
	builder.WriteString("\n")
}

func writeSplitSection(builder *strings.Builder, result *pipeline.Result) {
	builder.WriteString("Metrics by Split\n")
	builder.WriteString("----------------\n")
	for _, split := range splitOrder {
		m, ok := result.Report.PerSplit[split]
		if !ok {
			continue
		}
		builder.WriteString(fmt.Sprintf("  %-10s rmse=%.3f mae=%.3f pearson=%.3f spearman=%.3f sign=%.3f rows=%d\n",
			split, m.RMSE, m.MAE, m.Pearson, m.Spearman, m.SignAgreement, m.Rows))
	}
	builder.WriteString("\n")
}

func writeBaselineSection(builder *strings.Builder, result *pipeline.Result) {
	if len(result.Report.Baselines) == 0 {
		return
	}
	builder.WriteString("Baselines\n")
	builder.WriteString("---------\n")
	for _, b := range result.Report.Baselines {
		if b.Skipped {
			builder.WriteString(fmt.Sprintf("  %-20s skipped (%s)\n", b.Model, b.Reason))
			continue
		}
		builder.WriteString(fmt.Sprintf("  %-20s rmse=%.3f mae=%.3f\n", b.Model, b.Metrics.RMSE, b.Metrics.MAE))
	}
	builder.WriteString("\n")
}

func writeRatingSection(builder *strings.Builder, result *pipeline.Result) {
	rows := sortedRatings(result.RatingTable.Ratings)
	shown := len(rows)
	if shown > topTeamsShown {
		shown = topTeamsShown
	}
	builder.WriteString(fmt.Sprintf("Top %d Teams\n", shown))
	builder.WriteString("------------\n")
	for i := 0; i < shown; i++ {
		builder.WriteString(fmt.Sprintf("  %2d. %-28s %+7.2f\n", i+1, rows[i].team, rows[i].rating))
	}
	builder.WriteString("\n")
}

type ratingRow struct {
	team   string
	rating float64
}

// sortedRatings orders teams by rating descending, team ID as tie-break so
// output is deterministic.
func sortedRatings(ratings map[string]float64) []ratingRow {
	rows := make([]ratingRow, 0, len(ratings))
	for team, rating := range ratings {
		rows = append(rows, ratingRow{team: team, rating: rating})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].rating != rows[j].rating {
			return rows[i].rating > rows[j].rating
		}
		return rows[i].team < rows[j].team
	})
	return rows
}
