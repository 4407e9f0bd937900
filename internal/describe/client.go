// Package describe calls the AI description endpoint that turns a seller's
// structured answers into marketing prose. Generation is best effort: the
// wizard proceeds with the manual description when this fails.
package describe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// GenerateRequest is the fixed subset of form fields the generator sees.
type GenerateRequest struct {
	Summary     string `json:"summary"`
	Customers   string `json:"customers"`
	Opportunity string `json:"opportunity"`
	UniqueEdge  string `json:"uniqueEdge"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
}

type generateResponse struct {
	Description string `json:"description"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GenerateDescription posts the request and returns the generated text. A
// non-2xx status is an error carrying the endpoint's message when it sends
// one.
func (c *Client) GenerateDescription(ctx context.Context, genReq GenerateRequest) (string, error) {
	jsonData, err := json.Marshal(genReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/generate-description"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			return "", fmt.Errorf("description generation failed: %s", errResp.Message)
		}
		return "", fmt.Errorf("description generation failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}

	if result.Description == "" {
		return "", fmt.Errorf("description is empty in response, body: %s", string(body))
	}

	return result.Description, nil
}
