package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/macroledger/backend/internal/nutrition"
)

// analysisTimeout caps the external analysis call. On timeout the caller
// falls back to requiring manual macros; there is no retry.
const analysisTimeout = 10 * time.Second

// AnalysisService estimates meal macros from a free-text description via the
// DeepSeek chat API, consulting the shared cache first.
type AnalysisService struct {
	apiKey string
	apiURL string
	cache  *AnalysisCache
	client *http.Client
}

var _ IAnalysisService = (*AnalysisService)(nil)

// NewAnalysisService creates an AnalysisService. The API key comes from
// DEEPSEEK_API_KEY or the file named by DEEPSEEK_API_KEY_FILE.
func NewAnalysisService(cache *AnalysisCache) (*AnalysisService, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("DEEPSEEK_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("DEEPSEEK_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}

	return &AnalysisService{
		apiKey: apiKey,
		apiURL: apiURL,
		cache:  cache,
		client: &http.Client{
			Timeout: analysisTimeout,
		},
	}, nil
}

// chatMessage is a message in the chat completion request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for the DeepSeek chat API.
type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
}

const analysisSystemPrompt = `You are a nutrition expert. Given a meal description, estimate its macronutrients. Respond only with JSON like {"protein":0,"carbs":0,"fats":0,"ingredients":["item 1","item 2"]} where protein, carbs and fats are grams as numbers and ingredients lists the component foods you identified.`

// Analyze returns a macro estimate for a meal description. Any failure of
// the upstream call (timeout, non-200 status, malformed payload) is
// reported as ErrUpstreamUnavailable so the caller can fall back to manual
// entry instead of failing the meal submission.
func (s *AnalysisService) Analyze(ctx context.Context, description string) (*nutrition.AnalysisResult, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Lookup(ctx, description); ok {
			return cached, nil
		}
	}

	result, err := s.callAPI(ctx, description)
	if err != nil {
		log.Printf("[AnalysisService] analysis failed: %v", err)
		return nil, fmt.Errorf("%w: %v", nutrition.ErrUpstreamUnavailable, err)
	}

	if s.cache != nil {
		s.cache.Store(ctx, description, result)
	}
	return result, nil
}

func (s *AnalysisService) callAPI(ctx context.Context, description string) (*nutrition.AnalysisResult, error) {
	reqBody := chatRequest{
		Model: "deepseek-chat",
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: analysisSystemPrompt,
			},
			{
				Role:    "user",
				Content: "Estimate the macros for this meal: " + description,
			},
		},
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	var result nutrition.AnalysisResult
	if err := json.Unmarshal([]byte(envelope.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse macro estimate: %w", err)
	}
	if result.Protein < 0 || result.Carbs < 0 || result.Fats < 0 {
		return nil, fmt.Errorf("estimate contains negative macros")
	}

	return &result, nil
}
