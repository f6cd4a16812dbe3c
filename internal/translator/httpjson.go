package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of a failed reply is kept in the error.
const maxErrorBody = 512

// StatusError is a non-200 reply from an HTTP backend.
type StatusError struct {
	Service string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: API returned status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Service, e.Status, e.Body)
}

// doJSON sends payload as a JSON body (none when nil) and decodes a 200 reply
// into out (skipped when nil).
func doJSON(ctx context.Context, client *http.Client, service, method, endpoint string, header http.Header, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Service: service, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", service, err)
	}
	return nil
}

// failed records err on result for reporting and returns both.
func failed(result *ServiceResult, err error) (*ServiceResult, error) {
	result.Error = err.Error()
	return result, err
}
