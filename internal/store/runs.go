package store

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/autoscout/internal/correlate"
	"github.com/blackwell-systems/autoscout/internal/summary"
)

// RunInput is everything SaveRun persists for one run.
type RunInput struct {
	Version        string
	ItemsSource    string
	SnippetsSource string
	Records        []correlate.Record
	Summary        summary.ExecutiveSummary
}

const runColumns = `id, run_id, taken_at, version, items_source, snippets_source, items, candidates,
	skipped_items, skipped_candidates, total_correlations, high_priority, avg_score`

// SaveRun stores a run with its ranked correlations and category statistics
// in one transaction and returns the stored run.
func (db *DB) SaveRun(in RunInput) (*Run, error) {
	s := in.Summary
	takenAt := s.GeneratedAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}
	run := &Run{
		RunID:             uuid.NewString(),
		TakenAt:           takenAt.UTC().Truncate(time.Second),
		Version:           in.Version,
		ItemsSource:       in.ItemsSource,
		SnippetsSource:    in.SnippetsSource,
		Items:             s.ItemsAnalyzed,
		Candidates:        s.CandidatesAnalyzed,
		SkippedItems:      s.Skipped.WorkItems,
		SkippedCandidates: s.Skipped.Candidates,
		TotalCorrelations: s.TotalCorrelations,
		HighPriority:      s.HighPriorityCount,
		AvgScore:          s.AverageScore,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO runs
		(run_id, taken_at, version, items_source, snippets_source, items, candidates,
		 skipped_items, skipped_candidates, total_correlations, high_priority, avg_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.TakenAt.Format(time.RFC3339), run.Version, run.ItemsSource, run.SnippetsSource,
		run.Items, run.Candidates, run.SkippedItems, run.SkippedCandidates,
		run.TotalCorrelations, run.HighPriority, run.AvgScore,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	if run.ID, err = result.LastInsertId(); err != nil {
		return nil, err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO correlations
		(run_id, rank, work_item_id, work_item_title, candidate_id, category, semantic_score,
		 automation_score, business_score, final_score, weighted_priority, priority, roi)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range in.Records {
		if _, err := stmt.Exec(
			run.ID, i+1, r.WorkItemID, r.WorkItemTitle, r.CandidateID, r.CandidateCategory,
			r.SemanticScore, r.AutomationScore, r.BusinessScore, r.FinalScore,
			r.WeightedPriority, string(r.Priority), string(r.ROI),
		); err != nil {
			return nil, fmt.Errorf("inserting correlation %d: %w", i+1, err)
		}
	}

	cats := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		cats = append(cats, name)
	}
	sort.Strings(cats)
	for _, name := range cats {
		st := s.Categories[name]
		if _, err := tx.Exec(
			`INSERT INTO category_stats (run_id, category, count, average_score, total_score)
			VALUES (?, ?, ?, ?, ?)`,
			run.ID, name, st.Count, st.AverageScore, st.TotalScore,
		); err != nil {
			return nil, fmt.Errorf("inserting category %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

// GetLatestRun returns the most recent run, or nil if none exist.
func (db *DB) GetLatestRun() (*Run, error) {
	return db.GetRunN(1)
}

// GetRunN returns the Nth most recent run (1 = latest, 2 = previous, etc.),
// or nil if there are fewer than n runs.
func (db *DB) GetRunN(n int) (*Run, error) {
	if n < 1 {
		return nil, fmt.Errorf("run index must be at least 1, got %d", n)
	}
	row := db.conn.QueryRow("SELECT "+runColumns+" FROM runs ORDER BY id DESC LIMIT 1 OFFSET ?", n-1)
	return scanRun(row)
}

// GetRun returns a run by its UUID, or nil if it does not exist.
func (db *DB) GetRun(runID string) (*Run, error) {
	row := db.conn.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	return scanRun(row)
}

// ListRuns returns up to limit runs, newest first. A limit of 0 or less
// returns every run.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query("SELECT "+runColumns+" FROM runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetCorrelations returns a run's correlations in rank order.
func (db *DB) GetCorrelations(runID int64) ([]CorrelationRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_id, rank, work_item_id, work_item_title, candidate_id, category,
		 semantic_score, automation_score, business_score, final_score, weighted_priority, priority, roi
		 FROM correlations WHERE run_id = ? ORDER BY rank`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []CorrelationRow
	for rows.Next() {
		var c CorrelationRow
		if err := rows.Scan(
			&c.ID, &c.RunID, &c.Rank, &c.WorkItemID, &c.WorkItemTitle, &c.CandidateID, &c.Category,
			&c.SemanticScore, &c.AutomationScore, &c.BusinessScore, &c.FinalScore,
			&c.WeightedPriority, &c.Priority, &c.ROI,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCategoryStats returns a run's per-category statistics ordered by name.
func (db *DB) GetCategoryStats(runID int64) ([]CategoryRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_id, category, count, average_score, total_score
		 FROM category_stats WHERE run_id = ? ORDER BY category`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []CategoryRow
	for rows.Next() {
		var c CategoryRow
		if err := rows.Scan(&c.ID, &c.RunID, &c.Category, &c.Count, &c.AverageScore, &c.TotalScore); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var takenAt string
	err := row.Scan(
		&r.ID, &r.RunID, &takenAt, &r.Version, &r.ItemsSource, &r.SnippetsSource,
		&r.Items, &r.Candidates, &r.SkippedItems, &r.SkippedCandidates,
		&r.TotalCorrelations, &r.HighPriority, &r.AvgScore,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &r, nil
}
