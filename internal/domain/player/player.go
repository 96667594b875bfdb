// Package player holds the read-only player catalog every dashboard view is
// derived from.
package player

import (
	"fmt"
	"strings"
)

// Role is a player's primary discipline.
type Role string

// Known roles.
const (
	RoleBatsman             Role = "Batsman"
	RoleBowler              Role = "Bowler"
	RoleAllRounder          Role = "All-rounder"
	RoleWicketkeeperBatsman Role = "Wicketkeeper-Batsman"
)

// BattingRoles are the roles ranked in run-based comparisons.
var BattingRoles = []Role{RoleBatsman, RoleAllRounder, RoleWicketkeeperBatsman}

// ParseRole matches a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{RoleBatsman, RoleBowler, RoleAllRounder, RoleWicketkeeperBatsman} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// TrendPoint is one season of a player's performance trend.
type TrendPoint struct {
	Year       int     `json:"year" koanf:"year"`
	Runs       int     `json:"runs" koanf:"runs"`
	Average    float64 `json:"average" koanf:"average"`
	StrikeRate float64 `json:"strikeRate" koanf:"strike_rate"`
}

// Record is an immutable catalog entry.
type Record struct {
	ID               string       `json:"id" koanf:"id"`
	Name             string       `json:"name" koanf:"name"`
	Country          string       `json:"country" koanf:"country"`
	Role             Role         `json:"role" koanf:"role"`
	TotalRuns        int          `json:"totalRuns" koanf:"total_runs"`
	TotalCenturies   int          `json:"totalCenturies" koanf:"total_centuries"`
	PerformanceTrend []TrendPoint `json:"performanceTrend" koanf:"performance_trend"`
}

// validate checks a single record in isolation.
func (r Record) validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: %s: empty name", ErrInvalidRecord, r.ID)
	}
	if _, err := ParseRole(string(r.Role)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRecord, r.ID, err)
	}
	if r.TotalRuns < 0 || r.TotalCenturies < 0 {
		return fmt.Errorf("%w: %s: negative totals", ErrInvalidRecord, r.ID)
	}
	for i, p := range r.PerformanceTrend {
		if p.Runs < 0 {
			return fmt.Errorf("%w: %s: negative runs in %d", ErrInvalidRecord, r.ID, p.Year)
		}
		if i > 0 && p.Year <= r.PerformanceTrend[i-1].Year {
			return fmt.Errorf("%w: %s: trend years must ascend", ErrInvalidRecord, r.ID)
		}
	}
	return nil
}

// clone copies the trend so callers cannot mutate catalog state.
func (r Record) clone() Record {
	if r.PerformanceTrend != nil {
		r.PerformanceTrend = append([]TrendPoint(nil), r.PerformanceTrend...)
	}
	return r
}
