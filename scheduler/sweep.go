package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/analyzer"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/stats"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/store"
)

// staleAfter is how old an audit may be before the sweep redoes it
const staleAfter = 24 * time.Hour

// Sweeper re-audits ledger documents whose last audit has gone stale
type Sweeper struct {
	db       *store.DB
	analyzer *analyzer.Analyzer
	stats    *stats.Storage
}

func NewSweeper(db *store.DB, an *analyzer.Analyzer, st *stats.Storage) *Sweeper {
	return &Sweeper{db: db, analyzer: an, stats: st}
}

// Run audits every stale document, records the runs, and returns how
// many documents were re-audited.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	stale, err := s.db.StaleDocuments(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		return 0, fmt.Errorf("list stale documents: %w", err)
	}

	audited := 0
	for _, summary := range stale {
		if ctx.Err() != nil {
			return audited, ctx.Err()
		}

		rec, err := s.db.GetDocument(ctx, summary.ID)
		if err != nil {
			log.Error("sweep could not load document", "id", summary.ID, "error", err)
			continue
		}
		if rec.Document == nil {
			continue
		}

		report := s.analyzer.Audit(rec.Document)
		run := &store.AuditRun{DocumentID: rec.ID, Score: report.Score, Report: report}
		if err := s.db.SaveAuditRun(ctx, run); err != nil {
			log.Error("sweep could not record audit", "id", rec.ID, "error", err)
			continue
		}

		s.stats.RecordAudit(report.Score)
		audited++
	}

	log.Info("audit sweep finished", "stale", len(stale), "audited", audited)

	return audited, nil
}
