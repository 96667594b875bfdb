// Package comparison derives the chart rows shown next to a selected player:
// a head-to-head pair when a comparison player is chosen, otherwise the top
// batting players by career runs.
package comparison

import (
	"strings"

	"github.com/okian/crickdash/internal/domain/player"
	"github.com/okian/crickdash/pkg/metrics"
)

// Sentinel means no explicit comparison player is chosen.
const Sentinel = "default"

// DefaultTopN is the size of the default ranking.
const DefaultTopN = 3

// Mode names which branch produced a set of rows.
type Mode string

const (
	ModeHeadToHead Mode = "head_to_head"
	ModeTopN       Mode = "top_n"
)

// Row is one bar in the comparison chart.
type Row struct {
	Name      string `json:"name"`
	Runs      int    `json:"runs"`
	Centuries int    `json:"centuries"`
}

// Selection is the baseline player plus an optional comparison player.
type Selection struct {
	BaselinePlayerID   string `json:"baseline_player_id"`
	ComparisonPlayerID string `json:"comparison_player_id"`
}

// IsSentinel reports whether id means "no explicit comparison".
func IsSentinel(id string) bool {
	id = strings.TrimSpace(id)
	return id == "" || id == Sentinel
}

// Option is a choice offered in the comparison picker.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func rowOf(r player.Record) Row {
	return Row{Name: r.Name, Runs: r.TotalRuns, Centuries: r.TotalCenturies}
}

// ComputeRows returns [baseline, comparison] when the comparison id resolves
// to another player and otherwise the top DefaultTopN batting players by
// runs. It never fails; unresolved ids and the baseline itself degrade to
// the ranking.
func ComputeRows(baseline player.Record, sel Selection, catalog *player.Catalog) ([]Row, Mode) {
	if !IsSentinel(sel.ComparisonPlayerID) && strings.TrimSpace(sel.ComparisonPlayerID) != baseline.ID {
		if other, err := catalog.FindByID(sel.ComparisonPlayerID); err == nil {
			metrics.RecordComparison(string(ModeHeadToHead))
			return []Row{rowOf(baseline), rowOf(other)}, ModeHeadToHead
		}
	}
	metrics.RecordComparison(string(ModeTopN))
	return TopN(catalog, DefaultTopN), ModeTopN
}

// TopN ranks up to n batting players by runs; equal totals keep catalog order.
func TopN(catalog *player.Catalog, n int) []Row {
	top := catalog.TopByRuns(n, player.BattingRoles...)
	rows := make([]Row, 0, len(top))
	for _, r := range top {
		rows = append(rows, rowOf(r))
	}
	return rows
}

// TrendSeries returns the player's trend unchanged, or an empty series.
func TrendSeries(r player.Record) []player.TrendPoint {
	if len(r.PerformanceTrend) == 0 {
		return []player.TrendPoint{}
	}
	return r.PerformanceTrend
}

// Options lists every player except the baseline, preceded by the sentinel.
func Options(catalog *player.Catalog, baselineID string) []Option {
	opts := []Option{{ID: Sentinel, Name: "Top 3 Players"}}
	for _, r := range catalog.ListAll() {
		if r.ID == baselineID {
			continue
		}
		opts = append(opts, Option{ID: r.ID, Name: r.Name})
	}
	return opts
}
