package report

import (
	"sort"
	"time"

	"fleet_utilization/internal/models"
)

// Exclusion identifies install records known to be wrong. Empty fields and the
// zero InstallDate match anything.
type Exclusion struct {
	AC          string
	SN          string
	InstallDate time.Time
}

// Matches reports whether the install record should be dropped
func (e Exclusion) Matches(t models.Transaction) bool {
	if e.AC == "" && e.SN == "" {
		return false
	}
	if e.AC != "" && e.AC != t.AC {
		return false
	}
	if e.SN != "" && e.SN != t.SN {
		return false
	}
	if !e.InstallDate.IsZero() && !e.InstallDate.Equal(t.Date) {
		return false
	}
	return true
}

type eventKey struct {
	sn, typ, ac, pos string
	date             time.Time
}

// dropDuplicates removes exact repeats, keeping the first occurrence
func dropDuplicates(txs []models.Transaction) []models.Transaction {
	seen := make(map[eventKey]bool, len(txs))
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		k := eventKey{sn: t.SN, typ: t.Type, ac: t.AC, pos: t.Position, date: t.Date}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}

// applyExclusions drops every install matched by any exclusion
func applyExclusions(installs []models.Transaction, exclusions []Exclusion) []models.Transaction {
	if len(exclusions) == 0 {
		return installs
	}
	out := make([]models.Transaction, 0, len(installs))
	for _, t := range installs {
		excluded := false
		for _, ex := range exclusions {
			if ex.Matches(t) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, t)
		}
	}
	return out
}

// pairInstalls joins each install to the earliest removal of the same engine from
// the same aircraft at or after the install time. A removal may close several
// installs. Installs without a removal stay open until end.
func pairInstalls(installs, removals []models.Transaction, end time.Time) []models.InstallRemovalPair {
	type group struct{ sn, ac string }

	removalTimes := make(map[group][]time.Time)
	for _, r := range removals {
		g := group{sn: r.SN, ac: r.AC}
		removalTimes[g] = append(removalTimes[g], r.Date)
	}
	for _, times := range removalTimes {
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	}

	pairs := make([]models.InstallRemovalPair, 0, len(installs))
	for _, in := range installs {
		p := models.InstallRemovalPair{
			ESN:         in.SN,
			AC:          in.AC,
			Position:    in.Position,
			InstallDate: in.Date,
			RemovalDate: end,
			Open:        true,
		}

		times := removalTimes[group{sn: in.SN, ac: in.AC}]
		idx := sort.Search(len(times), func(i int) bool { return !times[i].Before(in.Date) })
		if idx < len(times) {
			p.RemovalDate = times[idx]
			p.Open = false
		}

		pairs = append(pairs, p)
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].ESN != pairs[j].ESN {
			return pairs[i].ESN < pairs[j].ESN
		}
		return pairs[i].InstallDate.Before(pairs[j].InstallDate)
	})

	return pairs
}
