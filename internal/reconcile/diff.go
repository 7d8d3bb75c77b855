package reconcile

import (
	"sort"

	"github.com/nao1215/md5recon/internal/model"
)

// Diff lists the filenames whose status differs between prev and curr,
// sorted by filename. A filename present in only one of the runs is
// reported with an empty status on the other side.
func Diff(prev, curr []model.Row) []model.StatusChange {
	before := make(map[string]model.Status, len(prev))
	for _, row := range prev {
		before[row.Filename] = row.Status
	}
	after := make(map[string]model.Status, len(curr))
	for _, row := range curr {
		after[row.Filename] = row.Status
	}

	var changes []model.StatusChange
	for name, status := range after {
		if old, ok := before[name]; !ok || old != status {
			changes = append(changes, model.StatusChange{Filename: name, Previous: old, Current: status})
		}
	}
	for name, status := range before {
		if _, ok := after[name]; !ok {
			changes = append(changes, model.StatusChange{Filename: name, Previous: status})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Filename < changes[j].Filename
	})
	return changes
}
