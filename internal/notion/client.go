package notion

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"pmsync/internal/config"
	"pmsync/internal/logger"
	"pmsync/internal/models"
)

// ErrNoToken is returned when no API token is available.
var ErrNoToken = errors.New("notion API token is required")

// queryPageSize is the Notion API maximum page size per query call.
const queryPageSize = 100

// API is the subset of the Notion client used by the fetcher.
// Injected so tests can run without network access.
type API interface {
	GetDatabase(ctx context.Context, id string) (*notionapi.Database, error)
	QueryDatabase(ctx context.Context, id string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

// liveAPI backs the API interface with the real Notion client.
type liveAPI struct {
	client *notionapi.Client
}

func (a *liveAPI) GetDatabase(ctx context.Context, id string) (*notionapi.Database, error) {
	return a.client.Database.Get(ctx, notionapi.DatabaseID(id))
}

func (a *liveAPI) QueryDatabase(ctx context.Context, id string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return a.client.Database.Query(ctx, notionapi.DatabaseID(id), req)
}

// DatabaseData is the result of fetching one database: its descriptor for
// classification and section resolution, plus all of its pages.
type DatabaseData struct {
	Descriptor models.DatabaseDescriptor
	Pages      []notionapi.Page
}

// Fetcher queries Notion databases with config-driven retry logic.
type Fetcher struct {
	api   API
	retry *config.RetryPolicy
	log   *logger.Logger
}

// NewFetcher creates a fetcher backed by the real Notion API.
func NewFetcher(token string, retry *config.RetryPolicy, log *logger.Logger) (*Fetcher, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	client := notionapi.NewClient(notionapi.Token(token))

	return NewFetcherWithAPI(&liveAPI{client: client}, retry, log), nil
}

// NewFetcherWithAPI creates a fetcher with an injected API implementation.
func NewFetcherWithAPI(api API, retry *config.RetryPolicy, log *logger.Logger) *Fetcher {
	return &Fetcher{api: api, retry: retry, log: log}
}

// FetchDatabase retrieves a database's descriptor and all of its pages,
// following the query cursor until exhausted.
func (f *Fetcher) FetchDatabase(ctx context.Context, id string) (*DatabaseData, error) {
	db, err := f.getDatabase(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get database %s: %w", id, err)
	}

	descriptor := models.DatabaseDescriptor{
		ID:            id,
		Title:         databaseTitle(db),
		PropertyNames: propertyNames(db),
	}

	var pages []notionapi.Page

	cursor := notionapi.Cursor("")

	for {
		resp, err := f.queryDatabase(ctx, id, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to query database %s: %w", id, err)
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore {
			break
		}

		cursor = resp.NextCursor
	}

	f.log.Debug("fetched database", "id", id, "title", descriptor.Title, "pages", len(pages))

	return &DatabaseData{Descriptor: descriptor, Pages: pages}, nil
}

func (f *Fetcher) getDatabase(ctx context.Context, id string) (*notionapi.Database, error) {
	var db *notionapi.Database

	err := f.withRetry(ctx, func(callCtx context.Context) error {
		var callErr error

		db, callErr = f.api.GetDatabase(callCtx, id)

		return callErr
	})

	return db, err
}

func (f *Fetcher) queryDatabase(ctx context.Context, id string, cursor notionapi.Cursor) (*notionapi.DatabaseQueryResponse, error) {
	req := &notionapi.DatabaseQueryRequest{
		StartCursor: cursor,
		PageSize:    queryPageSize,
	}

	var resp *notionapi.DatabaseQueryResponse

	err := f.withRetry(ctx, func(callCtx context.Context) error {
		var callErr error

		resp, callErr = f.api.QueryDatabase(callCtx, id, req)

		return callErr
	})

	return resp, err
}

// withRetry runs one API call with exponential backoff per the retry policy.
func (f *Fetcher) withRetry(ctx context.Context, call func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= f.retry.MaxAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, f.retry.GetTimeout())
		err := call(callCtx)

		cancel()

		if err == nil {
			return nil
		}

		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, f.retry.MaxAttempts, err)

		if attempt < f.retry.MaxAttempts {
			delay := f.retry.GetRetryDelay(attempt)

			f.log.Debug("retrying notion call", "attempt", attempt, "delay", delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}

func databaseTitle(db *notionapi.Database) string {
	var sb strings.Builder

	for _, part := range db.Title {
		sb.WriteString(part.PlainText)
	}

	return strings.TrimSpace(sb.String())
}

// propertyNames returns the database's declared property names, sorted so
// classification input is deterministic regardless of map iteration order.
func propertyNames(db *notionapi.Database) []string {
	names := make([]string, 0, len(db.Properties))

	for name := range db.Properties {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
