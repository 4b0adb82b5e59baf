package notion

import (
	"context"
	"errors"
	"testing"

	"github.com/jomei/notionapi"

	"pmsync/internal/config"
	"pmsync/internal/logger"
)

var errUnavailable = errors.New("service unavailable")

// fakeAPI scripts Notion responses for the fetcher.
type fakeAPI struct {
	database    *notionapi.Database
	pages       [][]notionapi.Page // one entry per query call
	getFailures int
	getCalls    int
	queryCalls  int
}

func (f *fakeAPI) GetDatabase(_ context.Context, _ string) (*notionapi.Database, error) {
	f.getCalls++

	if f.getCalls <= f.getFailures {
		return nil, errUnavailable
	}

	return f.database, nil
}

func (f *fakeAPI) QueryDatabase(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	if f.queryCalls >= len(f.pages) {
		return &notionapi.DatabaseQueryResponse{}, nil
	}

	batch := f.pages[f.queryCalls]
	f.queryCalls++

	return &notionapi.DatabaseQueryResponse{
		Results:    batch,
		HasMore:    f.queryCalls < len(f.pages),
		NextCursor: notionapi.Cursor("next"),
	}, nil
}

func testRetryPolicy() *config.RetryPolicy {
	return &config.RetryPolicy{
		MaxAttempts:       3,
		InitialDelayMs:    0,
		MaxDelayMs:        0,
		BackoffMultiplier: 1.0,
		TimeoutSec:        5,
	}
}

func testDatabase(title string, propertyNames ...string) *notionapi.Database {
	props := notionapi.PropertyConfigs{}
	for _, name := range propertyNames {
		props[name] = notionapi.TitlePropertyConfig{Type: notionapi.PropertyConfigTypeTitle}
	}

	return &notionapi.Database{
		Title:      []notionapi.RichText{{PlainText: title}},
		Properties: props,
	}
}

func TestFetcher_FetchDatabase(t *testing.T) {
	api := &fakeAPI{
		database: testDatabase("Ma région virtuose", "Titre", "Compositeur"),
		pages: [][]notionapi.Page{
			{{ID: "page-1"}, {ID: "page-2"}},
			{{ID: "page-3"}},
		},
	}

	f := NewFetcherWithAPI(api, testRetryPolicy(), logger.NewNopLogger())

	data, err := f.FetchDatabase(context.Background(), "db-1")
	if err != nil {
		t.Fatalf("FetchDatabase failed: %v", err)
	}

	if data.Descriptor.Title != "Ma région virtuose" {
		t.Errorf("Title = %q", data.Descriptor.Title)
	}

	// Pagination must follow the cursor across both batches.
	if len(data.Pages) != 3 {
		t.Errorf("Pages = %d, want 3", len(data.Pages))
	}

	// Property names sorted for deterministic classification input.
	want := []string{"Compositeur", "Titre"}
	for i, name := range data.Descriptor.PropertyNames {
		if name != want[i] {
			t.Errorf("PropertyNames[%d] = %q, want %q", i, name, want[i])
		}
	}
}

func TestFetcher_RetriesTransientFailures(t *testing.T) {
	api := &fakeAPI{
		database:    testDatabase("Financements", "Montant"),
		pages:       [][]notionapi.Page{{}},
		getFailures: 2,
	}

	f := NewFetcherWithAPI(api, testRetryPolicy(), logger.NewNopLogger())

	if _, err := f.FetchDatabase(context.Background(), "db-1"); err != nil {
		t.Fatalf("FetchDatabase should have recovered after retries: %v", err)
	}

	if api.getCalls != 3 {
		t.Errorf("getCalls = %d, want 3", api.getCalls)
	}
}

func TestFetcher_ExhaustsRetries(t *testing.T) {
	api := &fakeAPI{
		database:    testDatabase("Financements"),
		getFailures: 10,
	}

	f := NewFetcherWithAPI(api, testRetryPolicy(), logger.NewNopLogger())

	_, err := f.FetchDatabase(context.Background(), "db-1")
	if !errors.Is(err, errUnavailable) {
		t.Errorf("FetchDatabase error = %v, want wrapped errUnavailable", err)
	}

	if api.getCalls != 3 {
		t.Errorf("getCalls = %d, want 3 (max attempts)", api.getCalls)
	}
}

func TestNewFetcher_RequiresToken(t *testing.T) {
	_, err := NewFetcher("", testRetryPolicy(), logger.NewNopLogger())
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("NewFetcher error = %v, want ErrNoToken", err)
	}
}
