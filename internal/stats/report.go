package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/snaketype/internal/model"
	"github.com/verte-zerg/snaketype/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Best     []model.BestScore
	Sessions []model.SessionAggregate
	CharAggs []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	best, err := st.BestScores(ctx, cfg.Since)
	if err != nil {
		return Report{}, fmt.Errorf("load best scores: %w", err)
	}
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("load sessions: %w", err)
	}
	charAggs, err := st.ListCharAggregatesForSessions(ctx, sessionIDs(sessions))
	if err != nil {
		return Report{}, fmt.Errorf("load char stats: %w", err)
	}
	return Report{
		Best:     best,
		Sessions: sessions,
		CharAggs: charAggs,
	}, nil
}

// RenderReport prints the plain-text report: best scores, summary and characters.
func RenderReport(w io.Writer, report Report) error {
	if err := RenderBestTable(w, report.Best); err != nil {
		return err
	}
	if err := RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	return RenderCharTable(w, report.CharAggs)
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
