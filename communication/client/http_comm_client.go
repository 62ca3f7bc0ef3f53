package client

import (
	"blackhole/communication"
	"blackhole/gamemaster"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match the game's sentinel errors.
func (e *APIError) Unwrap() error {
	return communication.Sentinel(e.Code)
}

// ClientCommunicator talks to a server started by the serve mode.
type ClientCommunicator struct {
	serverURL string
	http      *http.Client
}

var _ communication.Communicator = (*ClientCommunicator)(nil)

// NewClientCommunicator initializes and returns a new ClientCommunicator. A
// nil httpClient uses http.DefaultClient.
func NewClientCommunicator(serverURL string, httpClient *http.Client) *ClientCommunicator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ClientCommunicator{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		http:      httpClient,
	}
}

func (cc *ClientCommunicator) Status(ctx context.Context) (gamemaster.Status, error) {
	var status gamemaster.Status
	err := cc.do(ctx, http.MethodGet, "/api/status", nil, &status)
	return status, err
}

func (cc *ClientCommunicator) LegalMoves(ctx context.Context) ([]int, error) {
	var moves struct {
		LegalMoves []int `json:"legalMoves"`
	}
	err := cc.do(ctx, http.MethodGet, "/api/moves", nil, &moves)
	return moves.LegalMoves, err
}

func (cc *ClientCommunicator) Play(ctx context.Context, index int) (gamemaster.Status, error) {
	var status gamemaster.Status
	err := cc.do(ctx, http.MethodPost, "/api/move", map[string]int{"index": index}, &status)
	return status, err
}

func (cc *ClientCommunicator) ComputerMove(ctx context.Context) (int, gamemaster.Status, error) {
	var response struct {
		Move   int               `json:"move"`
		Status gamemaster.Status `json:"status"`
	}
	err := cc.do(ctx, http.MethodPost, "/api/computer", nil, &response)
	return response.Move, response.Status, err
}

func (cc *ClientCommunicator) Reset(ctx context.Context) (gamemaster.Status, error) {
	var status gamemaster.Status
	err := cc.do(ctx, http.MethodPost, "/api/reset", nil, &status)
	return status, err
}

func (cc *ClientCommunicator) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, cc.serverURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := cc.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Code: e.Code, Message: e.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
