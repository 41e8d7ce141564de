package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"branchsync/internal/core/changelog"
	"branchsync/internal/modkit/repokit"
	"branchsync/internal/modkit/repokit/repotest"
	perr "branchsync/internal/platform/errors"
	"branchsync/internal/services/changes/domain"
	"branchsync/internal/services/changes/repo"
)

var (
	msk = changelog.FixedZone(3)
	now = time.Date(2026, 3, 1, 12, 0, 0, 0, msk)
)

func ts(d time.Duration) string { return changelog.FormatTimestamp(now.Add(-d), msk) }

func newTestSvc(r repo.Repo) *Svc {
	s := New(r, Config{TZOffsetHours: 3})
	s.now = func() time.Time { return now }
	return s
}

func TestCategorize(t *testing.T) {
	out, err := newTestSvc(nil).Categorize(context.Background(), domain.CategorizeInput{
		Titles: []string{"Изменён график работы", "Загружено фото", "Что-то произошло"},
	})
	if err != nil {
		t.Fatalf("Categorize: %v", err)
	}
	want := []changelog.Category{changelog.CategorySchedule, changelog.CategoryMedia, changelog.CategoryOther}
	for i, w := range want {
		if out[i].Category != w {
			t.Fatalf("%q = %s want %s", out[i].Title, out[i].Category, w)
		}
	}
}

func TestStats_Windows(t *testing.T) {
	st, err := newTestSvc(nil).Stats(context.Background(), domain.StatsInput{Locations: []domain.LocationInput{
		{ID: "a", Changes: []domain.EntryInput{
			{Title: "Изменён график работы", Timestamp: ts(time.Hour)},
			{Title: "Новый телефон", Timestamp: ts(3 * changelog.Day), NewValue: "+7"},
		}},
		{ID: "b", Changes: []domain.EntryInput{{Title: "Уточнён адрес", Timestamp: "вчера"}}},
	}})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalChanges != 3 || st.Unparseable != 1 || st.Last24h.Changes != 1 || st.Last7d.Changes != 2 {
		t.Fatalf("stats = %+v", st)
	}
	if !(st.Last24h.Changes <= st.Last7d.Changes && st.Last7d.Changes <= st.Last30d.Changes && st.Last30d.Changes <= st.TotalChanges) {
		t.Fatalf("windows not monotonic: %+v", st)
	}
	if st.AvgPerChangedLocation != 1.5 {
		t.Fatalf("avg = %v", st.AvgPerChangedLocation)
	}
}

func TestIngest_WritesClassifiedRows(t *testing.T) {
	ch := &repotest.CH{}
	s := newTestSvc(repo.NewCH(ch))

	res, err := s.Ingest(context.Background(), domain.IngestInput{Locations: []domain.LocationInput{
		{ID: "loc-1", Name: "Отделение 1", Changes: []domain.EntryInput{
			{Title: "Изменён график работы", Timestamp: ts(time.Hour), OldValue: "09-20", NewValue: "09-21"},
			{Title: "Что-то", Timestamp: "вчера", Category: changelog.CategoryPrices},
		}},
	}})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Rows != 2 || res.Unparseable != 1 || res.Locations != 1 {
		t.Fatalf("result = %+v", res)
	}

	ins := ch.Inserts()
	if len(ins) != 1 || len(ins[0].Rows) != 2 {
		t.Fatalf("inserts = %+v", ins)
	}
	first, second := ins[0].Rows[0], ins[0].Rows[1]
	if first[0] != "loc-1" || first[3] != "schedule" || first[4] != "modified" {
		t.Fatalf("first row = %v", first)
	}
	if at, ok := first[9].(*time.Time); !ok || at == nil || !at.Equal(now.Add(-time.Hour)) {
		t.Fatalf("changed_at = %v", first[9])
	}
	// a valid posted category is kept
	if second[3] != "prices" || second[8] != "вчера" {
		t.Fatalf("second row = %v", second)
	}
	if at, _ := second[9].(*time.Time); at != nil {
		t.Fatalf("unparseable changed_at should be nil, got %v", at)
	}
}

func TestIngest_Errors(t *testing.T) {
	in := domain.IngestInput{Locations: []domain.LocationInput{{ID: "x", Changes: []domain.EntryInput{{Title: "t"}}}}}

	if _, err := newTestSvc(nil).Ingest(context.Background(), in); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("no clickhouse: %v", err)
	}

	ch := &repotest.CH{Err: errors.New("code: 241, message: memory limit exceeded")}
	if _, err := newTestSvc(repo.NewCH(ch)).Ingest(context.Background(), in); err == nil {
		t.Fatalf("expected insert error")
	}
}

func TestStoredStats_GroupsByLocation(t *testing.T) {
	ch := &repotest.CH{QueryFn: func(string, []any) (repokit.Rows, error) {
		return repotest.NewRows(nil,
			[]any{"a", "A", "Изменён график работы", "schedule", "unknown", "", "", "", ts(time.Hour)},
			[]any{"a", "A", "Загружено фото", "media", "unknown", "", "", "", ts(10 * changelog.Day)},
			[]any{"b", "B", "Новый телефон", "contacts", "added", "", "+7", "", ts(2 * changelog.Day)},
		), nil
	}}
	s := newTestSvc(repo.NewCH(ch))

	st, err := s.StoredStats(context.Background())
	if err != nil {
		t.Fatalf("StoredStats: %v", err)
	}
	if st.TotalLocations != 2 || st.TotalChanges != 3 || st.Last7d.Locations != 2 || st.Last24h.Changes != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if st.ByCategory[changelog.CategoryMedia] != 1 || st.ByType[changelog.TypeAdded] != 1 {
		t.Fatalf("by category = %v by type = %v", st.ByCategory, st.ByType)
	}

	q := ch.Queries()
	if len(q) != 1 {
		t.Fatalf("queries = %+v", q)
	}
	since, _ := q[0].Args[0].(time.Time)
	if !since.Equal(now.Add(-changelog.Month)) {
		t.Fatalf("since = %v", q[0].Args[0])
	}
}

func TestStoredStats_Unavailable(t *testing.T) {
	if _, err := newTestSvc(nil).StoredStats(context.Background()); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
