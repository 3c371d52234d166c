package catalog

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestCatalog(t *testing.T) *SQLiteCatalog {
	t.Helper()

	cat, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	t.Cleanup(func() { cat.Close() })

	return cat
}

func TestCreateTool_AssignsID(t *testing.T) {
	cat := openTestCatalog(t)

	tool := &Tool{Name: "AI Summarizer", Description: "Summarize documents", Cost: 0.05, OwnerID: 1}
	id, err := cat.CreateTool(tool)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if id == 0 {
		t.Error("expected a non-zero id")
	}
	if tool.ID != id {
		t.Errorf("tool.ID = %d, want %d", tool.ID, id)
	}

	got, err := cat.GetTool(id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "AI Summarizer" || got.Cost != 0.05 {
		t.Errorf("unexpected tool: %+v", got)
	}
}

func TestGetTool_NotFound(t *testing.T) {
	cat := openTestCatalog(t)

	if _, err := cat.GetTool(999); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
}

func TestFetchByIDs(t *testing.T) {
	cat := openTestCatalog(t)

	var ids []int64
	for _, name := range []string{"a", "b", "c"} {
		id, err := cat.CreateTool(&Tool{Name: name, Description: name, OwnerID: 1})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		ids = append(ids, id)
	}

	tools, err := cat.FetchByIDs([]int64{ids[2], ids[0]})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tools) != 2 {
		t.Errorf("expected 2 tools, got %d", len(tools))
	}

	empty, err := cat.FetchByIDs(nil)
	if err != nil {
		t.Fatalf("empty fetch failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no tools for empty id set, got %d", len(empty))
	}
}

func TestFetchBySubstring_CaseInsensitive(t *testing.T) {
	cat := openTestCatalog(t)

	cat.CreateTool(&Tool{Name: "Image Classifier", Description: "Classify PICTURES", OwnerID: 1})
	cat.CreateTool(&Tool{Name: "Speech-to-Text", Description: "Convert audio to text", OwnerID: 1})

	tools, err := cat.FetchBySubstring("pictures", 10)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tools) != 1 || tools[0].Name != "Image Classifier" {
		t.Errorf("expected the classifier via description match, got %+v", tools)
	}

	tools, err = cat.FetchBySubstring("SPEECH", 10)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tools) != 1 || tools[0].Name != "Speech-to-Text" {
		t.Errorf("expected the speech tool via name match, got %+v", tools)
	}
}

func TestFetchBySubstring_Limit(t *testing.T) {
	cat := openTestCatalog(t)

	for i := 0; i < 5; i++ {
		cat.CreateTool(&Tool{Name: "summarizer", Description: "summarize", OwnerID: 1})
	}

	tools, err := cat.FetchBySubstring("summar", 3)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tools) != 3 {
		t.Errorf("expected limit 3 respected, got %d", len(tools))
	}
}

func TestFetchMostRecent_Order(t *testing.T) {
	cat := openTestCatalog(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		cat.CreateTool(&Tool{
			Name:      "tool",
			OwnerID:   1,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	tools, err := cat.FetchMostRecent(2)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	if !tools[0].CreatedAt.After(tools[1].CreatedAt) {
		t.Errorf("expected newest first: %v then %v", tools[0].CreatedAt, tools[1].CreatedAt)
	}
}

func TestRecordRating_Conflict(t *testing.T) {
	cat := openTestCatalog(t)

	id, _ := cat.CreateTool(&Tool{Name: "tool", OwnerID: 1})

	if err := cat.RecordRating(Rating{ToolID: id, UserID: 7, Value: 4}); err != nil {
		t.Fatalf("first rating failed: %v", err)
	}

	err := cat.RecordRating(Rating{ToolID: id, UserID: 7, Value: 5})
	if !errors.Is(err, ErrRatingConflict) {
		t.Errorf("expected ErrRatingConflict for duplicate rating, got %v", err)
	}

	// A different user may still rate the same tool.
	if err := cat.RecordRating(Rating{ToolID: id, UserID: 8, Value: 5}); err != nil {
		t.Errorf("second user's rating failed: %v", err)
	}

	ratings, err := cat.ToolRatings(id)
	if err != nil {
		t.Fatalf("fetch ratings failed: %v", err)
	}
	if len(ratings) != 2 {
		t.Errorf("expected 2 ratings, got %d", len(ratings))
	}
}

func TestRecordRating_InvalidValue(t *testing.T) {
	cat := openTestCatalog(t)

	if err := cat.RecordRating(Rating{ToolID: 1, UserID: 1, Value: 6}); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("expected ErrInvalidRating for value 6, got %v", err)
	}
	if err := cat.RecordRating(Rating{ToolID: 1, UserID: 1, Value: -1}); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("expected ErrInvalidRating for value -1, got %v", err)
	}
}

func TestTransactions(t *testing.T) {
	cat := openTestCatalog(t)

	id, _ := cat.CreateTool(&Tool{Name: "tool", OwnerID: 1})

	for _, amount := range []float64{10.5, 20, 0.25} {
		if err := cat.RecordTransaction(&Transaction{ToolID: id, UserID: 2, Amount: amount}); err != nil {
			t.Fatalf("record transaction failed: %v", err)
		}
	}

	amounts, err := cat.ToolTransactionAmounts(id)
	if err != nil {
		t.Fatalf("fetch amounts failed: %v", err)
	}
	if len(amounts) != 3 {
		t.Fatalf("expected 3 amounts, got %d", len(amounts))
	}

	var total float64
	for _, a := range amounts {
		total += a
	}
	if total != 30.75 {
		t.Errorf("expected total 30.75, got %f", total)
	}
}

func TestUsage_RecordAndCount(t *testing.T) {
	cat := openTestCatalog(t)

	id, _ := cat.CreateTool(&Tool{Name: "tool", OwnerID: 1})

	now := time.Now().UTC()
	events := []UsageEvent{
		{ToolID: id, UserID: 1, Success: true, ProcessingTime: 0.5, Timestamp: now.Add(-48 * time.Hour)},
		{ToolID: id, UserID: 1, Success: false, ProcessingTime: 2.0, Timestamp: now.Add(-time.Hour)},
		{ToolID: id, UserID: 2, Success: true, ProcessingTime: 1.0, Timestamp: now},
	}
	for i := range events {
		if err := cat.RecordUsage(&events[i]); err != nil {
			t.Fatalf("record usage failed: %v", err)
		}
	}

	history, err := cat.ToolUsage(id)
	if err != nil {
		t.Fatalf("fetch usage failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 events, got %d", len(history))
	}
	if !history[0].Timestamp.Before(history[2].Timestamp) {
		t.Error("expected usage history ordered oldest first")
	}
	if history[1].Success {
		t.Error("expected the failed event to round-trip as failed")
	}

	recent, err := cat.CountRecentUsage(id, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if recent != 2 {
		t.Errorf("expected 2 recent events, got %d", recent)
	}
}

func TestRecordSearch(t *testing.T) {
	cat := openTestCatalog(t)

	record := SearchRecord{
		SearchID:     "search-1",
		QueryHash:    HashQuery("summarize"),
		Tier:         "semantic",
		ResultsCount: 3,
	}
	if err := cat.RecordSearch(record); err != nil {
		t.Fatalf("record search failed: %v", err)
	}

	// SearchID is unique.
	if err := cat.RecordSearch(record); err == nil {
		t.Error("expected an error for a duplicate search id")
	}
}

func TestHashQuery_Deterministic(t *testing.T) {
	if HashQuery("a") != HashQuery("a") {
		t.Error("expected identical hashes for identical input")
	}
	if HashQuery("a") == HashQuery("b") {
		t.Error("expected different hashes for different input")
	}
}
