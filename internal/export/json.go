package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"fricu/internal/analysis"
)

type jsonExport struct {
	ExportedAt string           `json:"exported_at"`
	Report     *analysis.Report `json:"report"`
}

// ToJSON writes the full report to path
func ToJSON(report *analysis.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, report); err != nil {
		return err
	}
	return f.Close()
}

// WriteJSON writes the report wrapped with an export timestamp
func WriteJSON(out io.Writer, report *analysis.Report) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Report:     report,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
