package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GenerationRequest carries the inputs for the external text generator.
type GenerationRequest struct {
	Plural   string `json:"plural"`
	Genitive string `json:"genitive"`
	Keywords string `json:"keywords"`
	SizeFrom int    `json:"sizeFrom"`
	SizeTo   int    `json:"sizeTo"`
	Theme    string `json:"theme"`
}

// ContentProvider defines the interface for article body generation.
type ContentProvider interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// ContentService calls the external article content generation API.
type ContentService struct {
	baseURL string
	client  *http.Client
}

// NewContentService creates a new ContentService.
func NewContentService(baseURL string) *ContentService {
	return &ContentService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Generate requests a generated article body for the given inputs.
func (s *ContentService) Generate(ctx context.Context, genReq GenerationRequest) (string, error) {
	payload, err := json.Marshal(genReq)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("content provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("content provider returned status %d", resp.StatusCode)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("invalid content provider response: %w", err)
	}
	if result.Text == "" {
		return "", fmt.Errorf("content provider returned empty text")
	}
	return result.Text, nil
}
