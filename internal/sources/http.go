package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/alimgiray/daybrief/internal/models"
)

// httpSource is the shared transport for the remote source adapters. Each
// provider gateway exposes a JSON endpoint already normalized to the engine's
// entity shapes; authentication is a bearer token.
type httpSource struct {
	baseURL string
	client  *http.Client
}

func newHTTPSource(baseURL, token string) httpSource {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return httpSource{
		baseURL: baseURL,
		client:  oauth2.NewClient(context.Background(), tokenSource),
	}
}

func (s httpSource) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("source returned status %d for %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// HTTPCalendarSource reads calendar events from a provider gateway
type HTTPCalendarSource struct {
	httpSource
}

// NewHTTPCalendarSource creates a calendar source backed by a JSON gateway
func NewHTTPCalendarSource(baseURL, token string) *HTTPCalendarSource {
	return &HTTPCalendarSource{newHTTPSource(baseURL, token)}
}

func (s *HTTPCalendarSource) Snapshot(ctx context.Context, window TimeRange) ([]models.CalendarEvent, error) {
	query := url.Values{}
	query.Set("start", window.Start.Format(time.RFC3339))
	query.Set("end", window.End.Format(time.RFC3339))

	var events []models.CalendarEvent
	if err := s.get(ctx, "/events", query, &events); err != nil {
		return nil, err
	}

	// isPast must reflect the wall clock at snapshot time
	now := time.Now()
	for i := range events {
		events[i].IsPast = events[i].EndTime.Before(now)
	}

	return events, nil
}

// HTTPMailSource reads mail threads from a provider gateway
type HTTPMailSource struct {
	httpSource
}

// NewHTTPMailSource creates a mail source backed by a JSON gateway
func NewHTTPMailSource(baseURL, token string) *HTTPMailSource {
	return &HTTPMailSource{newHTTPSource(baseURL, token)}
}

func (s *HTTPMailSource) Snapshot(ctx context.Context, since time.Time, limit int) ([]models.MailThread, error) {
	query := url.Values{}
	query.Set("since", since.Format(time.RFC3339))
	query.Set("limit", strconv.Itoa(limit))

	var threads []models.MailThread
	if err := s.get(ctx, "/threads", query, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// HTTPNoteSource reads meeting notes from a provider gateway
type HTTPNoteSource struct {
	httpSource
}

// NewHTTPNoteSource creates a note source backed by a JSON gateway
func NewHTTPNoteSource(baseURL, token string) *HTTPNoteSource {
	return &HTTPNoteSource{newHTTPSource(baseURL, token)}
}

func (s *HTTPNoteSource) Snapshot(ctx context.Context, since time.Time) ([]models.Note, error) {
	query := url.Values{}
	query.Set("since", since.Format(time.RFC3339))

	var notes []models.Note
	if err := s.get(ctx, "/notes", query, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// HTTPTodoSource reads todo items from a provider gateway
type HTTPTodoSource struct {
	httpSource
}

// NewHTTPTodoSource creates a todo source backed by a JSON gateway
func NewHTTPTodoSource(baseURL, token string) *HTTPTodoSource {
	return &HTTPTodoSource{newHTTPSource(baseURL, token)}
}

func (s *HTTPTodoSource) Pending(ctx context.Context) ([]models.TodoItem, error) {
	var todos []models.TodoItem
	if err := s.get(ctx, "/todos/pending", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *HTTPTodoSource) CompletedSince(ctx context.Context, since time.Time) ([]models.TodoItem, error) {
	query := url.Values{}
	query.Set("since", since.Format(time.RFC3339))

	var todos []models.TodoItem
	if err := s.get(ctx, "/todos/completed", query, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}
