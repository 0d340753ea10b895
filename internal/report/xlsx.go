package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// batchHeader is the column layout of the batch summary sheet.
var batchHeader = []string{
	"Address", "Analysis ID", "Success", "Walk Score", "Grade",
	"Total Score", "POIs", "Error",
}

// WriteBatchXLSX writes one row per analyzed property to an XLSX workbook.
func WriteBatchXLSX(path string, results []model.AnalysisResult) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Batch Summary")
	if err != nil {
		return eris.Wrap(err, "report: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, name := range batchHeader {
		header.AddCell().SetString(name)
	}

	for _, r := range results {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Property.Address)
		row.AddCell().SetString(r.AnalysisID)
		row.AddCell().SetBool(r.Success)
		if r.Metrics != nil {
			row.AddCell().SetFloatWithFormat(r.Metrics.WalkScore.Overall, "0.0")
			row.AddCell().SetString(r.Metrics.WalkScore.Grade)
			row.AddCell().SetFloatWithFormat(r.Metrics.TotalScore, "0.0")
		} else {
			row.AddCell().SetString("")
			row.AddCell().SetString("")
			row.AddCell().SetString("")
		}
		row.AddCell().SetInt(len(r.POIs))
		row.AddCell().SetString(r.Error)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "report: save xlsx")
	}
	return nil
}
