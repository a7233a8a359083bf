package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/avdeev/codepair-server/internal/broker"
)

func postExecute(t *testing.T, ts string, body string) (*http.Response, func()) {
	t.Helper()

	resp, err := http.Post(ts+"/execute", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("execute request failed: %v", err)
	}
	return resp, func() { resp.Body.Close() }
}

func TestExecuteReturnsBrokerOutput(t *testing.T) {
	stub := &stubExecutor{result: broker.Result{Output: "hi\n", Outcome: broker.OutcomeCompleted}}
	ts, cancel := startTestServer(t, stub)
	defer cancel()

	resp, done := postExecute(t, ts.URL, `{"code":"console.log('hi')","language":"javascript"}`)
	defer done()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var body ExecuteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Output != "hi\n" || body.Outcome != "completed" {
		t.Fatalf("unexpected response: %+v", body)
	}

	if stub.last == nil || stub.last.Language != "javascript" {
		t.Fatalf("broker did not receive the request: %+v", stub.last)
	}
}

func TestExecuteCrashedStillRespondsOK(t *testing.T) {
	stub := &stubExecutor{result: broker.Result{
		Output:  "SyntaxError: Unexpected token\n",
		Outcome: broker.OutcomeCrashed,
	}}
	ts, cancel := startTestServer(t, stub)
	defer cancel()

	resp, done := postExecute(t, ts.URL, `{"code":"syntax(((","language":"javascript"}`)
	defer done()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("crashed executions are results, not transport errors; got %d", resp.StatusCode)
	}

	var body ExecuteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Outcome != "crashed" || body.Output == "" {
		t.Fatalf("unexpected response: %+v", body)
	}
}

func TestExecuteMissingCodeIsBadRequest(t *testing.T) {
	stub := &stubExecutor{}
	ts, cancel := startTestServer(t, stub)
	defer cancel()

	resp, done := postExecute(t, ts.URL, `{"language":"javascript"}`)
	defer done()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if stub.last != nil {
		t.Fatalf("broker must not run for malformed requests: %+v", stub.last)
	}
}

func TestExecuteMalformedJSONIsBadRequest(t *testing.T) {
	ts, cancel := startTestServer(t, nil)
	defer cancel()

	resp, done := postExecute(t, ts.URL, `{"code":`)
	defer done()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
