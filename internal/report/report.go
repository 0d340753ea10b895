// Package report writes completed analyses to the boundary formats:
// indented JSON for single runs, XLSX summaries for batches, and GeoJSON
// for map front ends.
package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// EncodeJSON writes one analysis as indented JSON.
func EncodeJSON(w io.Writer, result model.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return eris.Wrap(err, "report: encode json")
	}
	return nil
}

// WriteJSON writes one analysis to a JSON file.
func WriteJSON(path string, result model.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "report: create json file")
	}
	defer f.Close() //nolint:errcheck

	if err := EncodeJSON(f, result); err != nil {
		return err
	}
	return eris.Wrap(f.Close(), "report: close json file")
}

// EncodeBatchJSON writes a batch's results and summary as indented JSON.
func EncodeBatchJSON(w io.Writer, results []model.AnalysisResult, summary model.BatchSummary) error {
	payload := struct {
		Summary model.BatchSummary     `json:"summary"`
		Results []model.AnalysisResult `json:"results"`
	}{Summary: summary, Results: results}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return eris.Wrap(err, "report: encode batch json")
	}
	return nil
}
