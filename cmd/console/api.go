package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/apu-inti/guardian/pkg/state"
)

// ActionResponse mirrors the API's mutating endpoint response. Result is
// kept raw since its shape depends on the action.
type ActionResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	View   *state.View     `json:"view"`
}

// CreateGameRequest matches the API request structure
type CreateGameRequest struct {
	Language string `json:"language,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// apiError turns a non-2xx response body into an error, preferring the
// API's ErrorResponse message.
func apiError(status int, body []byte, what string) error {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
		return fmt.Errorf("API returned status %d: %s", status, string(body))
	}
	return fmt.Errorf("%s: %s", what, errorResp.Error)
}

func readBody(resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func createGame(client *http.Client, baseURL, language string) (*state.View, error) {
	jsonData, err := json.Marshal(CreateGameRequest{Language: language})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(baseURL+"/v1/games", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, apiError(resp.StatusCode, body, "failed to create game")
	}

	var gs state.GameState
	if err := json.Unmarshal(body, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse game response: %w", err)
	}
	return getView(client, baseURL, gs.ID.String())
}

func getView(client *http.Client, baseURL, gameID string) (*state.View, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/games/%s/view", baseURL, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, "failed to get view")
	}

	var v state.View
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("failed to parse view response: %w", err)
	}
	return &v, nil
}

// postAction calls POST /v1/games/{id}/{suffix}. A nil payload sends an
// empty JSON object.
func postAction(client *http.Client, baseURL, gameID, suffix string, payload any) (*ActionResponse, error) {
	if payload == nil {
		payload = struct{}{}
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/games/%s/%s", baseURL, gameID, suffix),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body, suffix)
	}

	var ar ActionResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, fmt.Errorf("failed to parse action response: %w", err)
	}
	if ar.View == nil {
		return nil, fmt.Errorf("action response has no view")
	}
	return &ar, nil
}

// saveCertificate downloads the certificate page into dir and returns
// the written path.
func saveCertificate(client *http.Client, baseURL, gameID, dir string) (string, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/games/%s/certificate", baseURL, gameID))
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp.StatusCode, body, "failed to get certificate")
	}

	name := filepath.Join(dir, fmt.Sprintf("apu-inti-%s.html", shortID(gameID)))
	if err := os.WriteFile(name, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write certificate: %w", err)
	}
	return name, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
