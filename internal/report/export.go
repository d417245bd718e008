package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/models"
	"github.com/firemansghost/Gridiron-Edge-V1-sub007/internal/pipeline"
)

// Artifact file names written by ExportArtifacts.
const (
	RatingsFile     = "ratings.json"
	RatingsCSVFile  = "ratings.csv"
	BlendFile       = "blend_config.json"
	MetricsFile     = "metrics_report.json"
	LambdaSweepFile = "lambda_sweep.json"
)

// lambdaSweepExport is the JSON shape for the cross-validation sweep.
type lambdaSweepExport struct {
	RunID      uuid.UUID         `json:"run_id"`
	Season     int               `json:"season"`
	Selected   float64           `json:"selected_lambda"`
	Candidates []lambdaCandidate `json:"candidates"`
	ExportedAt time.Time         `json:"exported_at"`
}

type lambdaCandidate struct {
	Lambda       float64 `json:"lambda"`
	MeanPearson  float64 `json:"mean_pearson"`
	Folds        int     `json:"folds"`
	SkippedFolds int     `json:"skipped_folds"`
}

// ExportArtifacts writes every run artifact under outputDir: the rating
// table (JSON and CSV), the blend config, the metrics report, and the
// lambda sweep.
func ExportArtifacts(result *pipeline.Result, outputDir string) error {
	if outputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeJSON(filepath.Join(outputDir, RatingsFile), result.RatingTable); err != nil {
		return err
	}
	if err := ExportRatingsCSV(result.RatingTable, filepath.Join(outputDir, RatingsCSVFile)); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(outputDir, BlendFile), result.BlendConfig); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(outputDir, MetricsFile), result.Report); err != nil {
		return err
	}
	return writeJSON(filepath.Join(outputDir, LambdaSweepFile), buildLambdaSweep(result))
}

// ExportRatingsCSV exports the rating table for spreadsheets, best team
// first.
func ExportRatingsCSV(table models.RatingTable, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	csv := "rank,team_id,rating\n"
	for i, row := range sortedRatings(table.Ratings) {
		csv += fmt.Sprintf("%d,%s,%.4f\n", i+1, row.team, row.rating)
	}
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}

func buildLambdaSweep(result *pipeline.Result) lambdaSweepExport {
	export := lambdaSweepExport{
		RunID:      result.RunID,
		Season:     result.RatingTable.Season,
		Selected:   result.RatingTable.Lambda,
		Candidates: make([]lambdaCandidate, 0, len(result.LambdaResults)),
		ExportedAt: time.Now().UTC(),
	}
	for _, r := range result.LambdaResults {
		export.Candidates = append(export.Candidates, lambdaCandidate(r))
	}
	return export
}

func writeJSON(outputPath string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(outputPath), err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(outputPath), err)
	}
	return nil
}
