package reconcile

import (
	"sort"

	"github.com/nao1215/md5recon/internal/model"
)

// Compare reconciles master against raw and returns one row per distinct
// filename, sorted ascending. Nil indexes are treated as empty.
func Compare(master, raw *model.HashIndex) []model.Row {
	if master == nil {
		master = model.NewHashIndex()
	}
	if raw == nil {
		raw = model.NewHashIndex()
	}

	names := unionNames(master, raw)
	rows := make([]model.Row, 0, len(names))
	for _, name := range names {
		m := master.Unique(name)
		r := raw.Unique(name)
		rows = append(rows, model.Row{
			Filename:     name,
			Status:       deriveStatus(master.Has(name), raw.Has(name), m, r),
			MasterHashes: m,
			RawHashes:    r,
		})
	}
	return rows
}

// deriveStatus applies the precedence duplicate > match/mismatch > presence.
func deriveStatus(inMaster, inRaw bool, m, r []string) model.Status {
	switch {
	case inMaster && inRaw:
		if len(m) > 1 || len(r) > 1 {
			var dupMaster, dupRaw model.Status
			if len(m) > 1 {
				dupMaster = model.StatusDuplicateInMaster
			}
			if len(r) > 1 {
				dupRaw = model.StatusDuplicateInRaw
			}
			return model.JoinStatus(dupMaster, dupRaw)
		}
		if len(m) > 0 && len(r) > 0 && m[0] == r[0] {
			return model.StatusMatch
		}
		return model.StatusMismatch
	case inMaster:
		return model.StatusOnlyInMaster
	default:
		return model.StatusOnlyInRaw
	}
}

// unionNames returns the sorted union of both indexes' filenames.
func unionNames(a, b *model.HashIndex) []string {
	seen := make(map[string]struct{}, a.Len()+b.Len())
	for _, n := range a.Names() {
		seen[n] = struct{}{}
	}
	for _, n := range b.Names() {
		seen[n] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
