package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauern/skilllint/internal/stats"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	runs := []Run{
		{StartedAt: base, Duration: 1500 * time.Millisecond, Root: "/a", Summary: stats.Summary{Plugins: 1, Skills: 3, Critical: 2}},
		{StartedAt: base.Add(time.Hour), Root: "/b", Summary: stats.Summary{Skills: 1, ValidSkills: 1}},
		{StartedAt: base.Add(2 * time.Hour), Root: "/a", ReportPath: "/a/.cache/marketplace-lint.json", Summary: stats.Summary{Skills: 3, Low: 4}},
	}
	for _, r := range runs {
		id, err := s.Record(ctx, r)
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if id <= 0 {
			t.Errorf("Record() id = %d", id)
		}
	}

	all, err := s.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() returned %d runs, want 3", len(all))
	}
	if !all[0].StartedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("newest run first: got %v", all[0].StartedAt)
	}
	if all[0].Summary.Low != 4 || all[0].ReportPath == "" {
		t.Errorf("round trip lost data: %+v", all[0])
	}
	if all[2].Duration != 1500*time.Millisecond || all[2].Summary.Critical != 2 {
		t.Errorf("round trip lost data: %+v", all[2])
	}

	onlyA, err := s.List(ctx, "/a", 10)
	if err != nil {
		t.Fatalf("List(/a) error = %v", err)
	}
	if len(onlyA) != 2 {
		t.Errorf("List(/a) returned %d runs, want 2", len(onlyA))
	}

	limited, err := s.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("List(limit 1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("List(limit 1) returned %d runs", len(limited))
	}
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	if _, ok, err := s.Latest(ctx, "/none"); err != nil || ok {
		t.Fatalf("Latest() on empty store = %v, %v", ok, err)
	}

	now := time.Now().Truncate(time.Millisecond)
	if _, err := s.Record(ctx, Run{StartedAt: now, Root: "/m", Summary: stats.Summary{Skills: 2}}); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Latest(ctx, "/m")
	if err != nil || !ok {
		t.Fatalf("Latest() = %v, %v", ok, err)
	}
	if !got.StartedAt.Equal(now) || got.Summary.Skills != 2 {
		t.Errorf("Latest() = %+v", got)
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	base := time.Now()
	for i := range 5 {
		if _, err := s.Record(ctx, Run{StartedAt: base.Add(time.Duration(i) * time.Minute), Root: "/m"}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Prune() removed %d runs, want 3", n)
	}
	left, err := s.List(ctx, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 2 {
		t.Errorf("%d runs left, want 2", len(left))
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	s, path := openTestStore(t)
	if _, err := s.Record(ctx, Run{StartedAt: time.Now(), Root: "/m"}); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	again, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = again.Close() }()

	runs, err := again.List(ctx, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("reopened store has %d runs, want 1", len(runs))
	}
}
