package reconcile

import "github.com/nao1215/md5recon/internal/model"

// Summarize counts each atomic status token across rows.
// A row with both duplicate flags increments both duplicate counters.
func Summarize(rows []model.Row) model.Summary {
	var s model.Summary
	for _, row := range rows {
		s.Add(row.Status)
	}
	return s
}
