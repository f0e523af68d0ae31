package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/autoscout/internal/correlate"
	"github.com/blackwell-systems/autoscout/internal/summary"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleInput(at time.Time, records ...correlate.Record) RunInput {
	return RunInput{
		Version:        "test",
		ItemsSource:    "board.json",
		SnippetsSource: "snippets/",
		Records:        records,
		Summary:        summary.Summarize(records, summary.Options{Items: 4, Candidates: 3, Now: at}),
	}
}

func pair(item, cand, category string, final float64, p correlate.Priority) correlate.Record {
	return correlate.Record{
		WorkItemID:        item,
		WorkItemTitle:     "title " + item,
		CandidateID:       cand,
		CandidateCategory: category,
		FinalScore:        final,
		Priority:          p,
		ROI:               correlate.ROIMedium,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	var version int
	if err := db.Conn().QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != currentSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestSaveRun_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	in := sampleInput(at,
		pair("c1", "trello/sync.py", "Trello_Automation", 0.8, correlate.PriorityCritical),
		pair("c2", "data/report.py", "Data_Processing", 0.5, correlate.PriorityMedium),
	)

	saved, err := db.SaveRun(in)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if _, err := uuid.Parse(saved.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", saved.RunID, err)
	}

	latest, err := db.GetLatestRun()
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil {
		t.Fatal("expected a run")
	}
	if latest.RunID != saved.RunID || !latest.TakenAt.Equal(at) {
		t.Errorf("latest = %+v, want run %s at %v", latest, saved.RunID, at)
	}
	if latest.TotalCorrelations != 2 || latest.HighPriority != 1 || latest.Items != 4 {
		t.Errorf("unexpected counts: %+v", latest)
	}

	rows, err := db.GetCorrelations(latest.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d correlations, want 2", len(rows))
	}
	if rows[0].Rank != 1 || rows[0].WorkItemID != "c1" || rows[0].Priority != "CRITICAL" {
		t.Errorf("first row = %+v", rows[0])
	}

	cats, err := db.GetCategoryStats(latest.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 || cats[0].Category != "Data_Processing" {
		t.Errorf("category stats = %+v", cats)
	}

	byID, err := db.GetRun(saved.RunID)
	if err != nil || byID == nil || byID.ID != saved.ID {
		t.Errorf("GetRun(%s) = %+v, %v", saved.RunID, byID, err)
	}
}

func TestGetLatestRun_Empty(t *testing.T) {
	db := openTestDB(t)
	run, err := db.GetLatestRun()
	if err != nil {
		t.Fatal(err)
	}
	if run != nil {
		t.Errorf("expected nil run, got %+v", run)
	}
}

func TestListRunsAndGetRunN(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := db.SaveRun(sampleInput(base.Add(time.Duration(i) * time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || !runs[0].TakenAt.Equal(base.Add(2*time.Hour)) {
		t.Errorf("ListRuns(2) = %+v", runs)
	}
	all, err := db.ListRuns(0)
	if err != nil || len(all) != 3 {
		t.Errorf("ListRuns(0) returned %d runs, %v", len(all), err)
	}

	second, err := db.GetRunN(2)
	if err != nil || second == nil || !second.TakenAt.Equal(base.Add(time.Hour)) {
		t.Errorf("GetRunN(2) = %+v, %v", second, err)
	}
	none, err := db.GetRunN(4)
	if err != nil || none != nil {
		t.Errorf("GetRunN(4) = %+v, %v; want nil", none, err)
	}
	if _, err := db.GetRunN(0); err == nil {
		t.Error("GetRunN(0) should fail")
	}
}

func TestCompareRuns(t *testing.T) {
	db := openTestDB(t)
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	prev, err := db.SaveRun(sampleInput(at,
		pair("c1", "a.py", "x", 0.5, correlate.PriorityMedium),
		pair("c2", "b.py", "x", 0.4, correlate.PriorityLow),
	))
	if err != nil {
		t.Fatal(err)
	}
	curr, err := db.SaveRun(sampleInput(at.Add(time.Hour),
		pair("c1", "a.py", "x", 0.9, correlate.PriorityCritical),
		pair("c3", "c.py", "x", 0.7, correlate.PriorityHigh),
		pair("c4", "d.py", "x", 0.6, correlate.PriorityHigh),
	))
	if err != nil {
		t.Fatal(err)
	}

	diff, err := db.CompareRuns(prev, curr)
	if err != nil {
		t.Fatal(err)
	}
	if len(diff.New) != 2 || diff.New[0].WorkItemID != "c3" {
		t.Errorf("New = %+v", diff.New)
	}
	if len(diff.Dropped) != 1 || diff.Dropped[0].WorkItemID != "c2" {
		t.Errorf("Dropped = %+v", diff.Dropped)
	}

	deltas := map[string]RunDelta{}
	for _, d := range diff.Deltas {
		deltas[d.Name] = d
	}
	if d := deltas["total_correlations"]; d.Delta != 1 || d.Direction != "improved" {
		t.Errorf("total_correlations delta = %+v", d)
	}
	if d := deltas["items"]; d.Direction != "unchanged" {
		t.Errorf("items delta = %+v", d)
	}
}

func TestComputeDeltas_LowerIsBetter(t *testing.T) {
	prev := &Run{SkippedItems: 1}
	curr := &Run{SkippedItems: 3}
	for _, d := range ComputeDeltas(prev, curr) {
		if d.Name == "skipped_records" && d.Direction != "regressed" {
			t.Errorf("more skips should regress, got %+v", d)
		}
	}
}

func TestHigherIsBetter(t *testing.T) {
	tests := map[string]bool{
		"high_priority":   true,
		"avg_score":       true,
		"skipped_records": false,
		"unknown_metric":  true,
	}
	for name, want := range tests {
		if got := HigherIsBetter(name); got != want {
			t.Errorf("HigherIsBetter(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestOpen_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "autoscout.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = db.Close() }()
	if _, err := db.SaveRun(sampleInput(time.Now())); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
}
