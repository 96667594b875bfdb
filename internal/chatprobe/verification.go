package chatprobe

import (
	"errors"
	"fmt"
)

// verifyRanking checks a sentinel comparison: the top three batting players
// in descending runs order.
func verifyRanking(res comparisonResult) error {
	if res.Mode != modeTopN {
		return fmt.Errorf("default comparison mode is %q, want %q", res.Mode, modeTopN)
	}
	if res.ComparisonPlayerID != sentinelID {
		return fmt.Errorf("default comparison id is %q, want %q", res.ComparisonPlayerID, sentinelID)
	}
	if len(res.Rows) == 0 || len(res.Rows) > 3 {
		return fmt.Errorf("default comparison has %d rows, want 1 to 3", len(res.Rows))
	}
	for i := 1; i < len(res.Rows); i++ {
		if res.Rows[i].Runs > res.Rows[i-1].Runs {
			return fmt.Errorf("ranking not sorted: row %d has more runs than row %d", i, i-1)
		}
	}
	return nil
}

// verifyHeadToHead checks that the view compares the baseline with exactly
// one other player, baseline first.
func verifyHeadToHead(view selectionView, baseline player) error {
	v := view.View
	if v.ComparisonMode != modeHeadToHead {
		return fmt.Errorf("comparison mode is %q, want %q", v.ComparisonMode, modeHeadToHead)
	}
	if len(v.Comparison) != 2 {
		return fmt.Errorf("head to head has %d rows, want 2", len(v.Comparison))
	}
	if v.Comparison[0].Name != baseline.Name || v.Comparison[0].Runs != baseline.TotalRuns {
		return fmt.Errorf("first row is %q, want baseline %q", v.Comparison[0].Name, baseline.Name)
	}
	return nil
}

// verifyExchange checks the transcript after a resolved exchange: wantTurns
// turns, ending with the question and a non-empty assistant reply.
func verifyExchange(snap chatSnapshot, wantTurns int, question string) error {
	if snap.Pending {
		return errors.New("session still pending")
	}
	if len(snap.Transcript) != wantTurns {
		return fmt.Errorf("transcript has %d turns, want %d", len(snap.Transcript), wantTurns)
	}
	user := snap.Transcript[wantTurns-2]
	reply := snap.Transcript[wantTurns-1]
	if user.Role != roleUser || user.Content != question {
		return fmt.Errorf("turn %d is %s %q, want user %q", wantTurns-1, user.Role, user.Content, question)
	}
	if reply.Role != roleAssistant || reply.Content == "" {
		return fmt.Errorf("turn %d is %s %q, want a non-empty assistant reply", wantTurns, reply.Role, reply.Content)
	}
	return nil
}
