package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"precinct/contracts/records"
	"precinct/internal/console/client"
	"precinct/internal/console/session"
	"precinct/internal/console/view"
	"precinct/internal/platform/logger"
	"precinct/pkg/testutil/backend"
)

// TestContext holds state between the steps of one scenario.
type TestContext struct {
	t       *testing.T
	Backend *backend.Backend

	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte

	API        *client.Client
	Session    *session.Session
	Dashboard  *view.Controller
	LastErr    error
	confirmYes bool
}

func NewTestContext(t *testing.T) *TestContext {
	return &TestContext{
		t:          t,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Start boots a fresh backend and a logged-out console against it.
func (tc *TestContext) Start() error {
	tc.Backend = backend.New(tc.t)
	api, err := client.New(tc.Backend.URL(), client.WithLogger(logger.Discard()))
	if err != nil {
		return err
	}
	tc.API = api
	tc.Session = session.New()
	tc.Dashboard = view.New(api, tc.Session,
		view.WithLogger(logger.Discard()),
		view.WithConfirmer(view.ConfirmFunc(func(context.Context, string) bool { return tc.confirmYes })),
	)
	return nil
}

func (tc *TestContext) POST(path string, body []byte) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, tc.Backend.URL()+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return tc.do(req)
}

func (tc *TestContext) GET(path string) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, tc.Backend.URL()+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// GetResponseField extracts a top-level field from the JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}
	return value, nil
}

func (tc *TestContext) ResponseContains(text string) bool {
	return strings.Contains(string(tc.LastResponseBody), text)
}

// DisplayedRecord finds a record on the dashboard by ID.
func (tc *TestContext) DisplayedRecord(id string) (records.Record, bool) {
	for _, r := range tc.Dashboard.Snapshot().Records {
		if r.ID == id {
			return r, true
		}
	}
	return records.Record{}, false
}
