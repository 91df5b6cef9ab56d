//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/workoutplanner/internal/engine"
	"github.com/2beens/workoutplanner/internal/middleware"

	"github.com/stretchr/testify/require"
)

type dispatchResponse struct {
	Revision uint64          `json:"revision"`
	Applied  string          `json:"applied"`
	Rejected *string         `json:"rejected"`
	State    json.RawMessage `json:"state"`
}

// doRequest sends an authorized request to the running server and returns the
// status code and the whole body.
func doRequest(ctx context.Context, t *testing.T, method, path string, body []byte) (int, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TokenHeader, testToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func dispatch(ctx context.Context, t *testing.T, actionType engine.ActionType, payload any) dispatchResponse {
	t.Helper()

	payloadJson, err := json.Marshal(payload)
	require.NoError(t, err)
	actionJson, err := json.Marshal(engine.RawAction{Type: actionType, Payload: payloadJson})
	require.NoError(t, err)

	status, body := doRequest(ctx, t, http.MethodPost, "/actions", actionJson)
	require.Equal(t, http.StatusOK, status, string(body))

	var resp dispatchResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}
