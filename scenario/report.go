package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// SaveReport persists a report to the output directory: the full report as
// indented JSON plus a per-scenario CSV summary. Both file names carry the
// run timestamp.
//
// Returns:
// - The JSON and CSV file paths that were written
func SaveReport(report *Report, outputDir string) (string, string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", "", errors.Wrap(err, "create output directory")
	}

	stamp := report.StartedAt.Format("2006-01-02_15-04-05")
	jsonPath := filepath.Join(outputDir, fmt.Sprintf("animbench_report_%s.json", stamp))
	csvPath := filepath.Join(outputDir, fmt.Sprintf("animbench_summary_%s.csv", stamp))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", "", errors.Wrap(err, "marshal report")
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", errors.Wrap(err, "write report file")
	}

	if err := saveSummaryCSV(csvPath, report); err != nil {
		return "", "", errors.Wrap(err, "write summary CSV")
	}

	return jsonPath, csvPath, nil
}

func saveSummaryCSV(filename string, report *Report) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	header := "Scenario,Duration_ms,Timestamp,Avg_FPS,Avg_Frame_ms,Grade\n"
	if _, err := file.WriteString(header); err != nil {
		return err
	}

	for _, result := range report.Results {
		line := fmt.Sprintf("%s,%.2f,%s,%.2f,%.2f,%s\n",
			result.Name,
			result.DurationMs,
			result.Timestamp.Format(time.RFC3339),
			report.Summary.AverageFPS,
			report.Summary.AverageFrameTimeMs,
			report.Summary.Grade,
		)
		if _, err := file.WriteString(line); err != nil {
			return err
		}
	}

	return nil
}
