package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macroledger/backend/internal/nutrition"
)

func stubAnalysisServer(t *testing.T, handler http.HandlerFunc) *AnalysisService {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &AnalysisService{
		apiKey: "test-api-key",
		apiURL: srv.URL,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func chatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
}

func TestNewAnalysisService(t *testing.T) {
	originalKey := os.Getenv("DEEPSEEK_API_KEY")
	defer os.Setenv("DEEPSEEK_API_KEY", originalKey)

	t.Run("should create service with API key", func(t *testing.T) {
		os.Setenv("DEEPSEEK_API_KEY", "test-api-key")

		svc, err := NewAnalysisService(nil)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("should fail without API key", func(t *testing.T) {
		os.Unsetenv("DEEPSEEK_API_KEY")
		os.Unsetenv("DEEPSEEK_API_KEY_FILE")

		svc, err := NewAnalysisService(nil)
		assert.Error(t, err)
		assert.Nil(t, svc)
	})
}

func TestAnalysisService_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("parses a well-formed estimate", func(t *testing.T) {
		svc := stubAnalysisServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

			var req chatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "deepseek-chat", req.Model)
			require.Len(t, req.Messages, 2)
			assert.Contains(t, req.Messages[1].Content, "chicken and rice")

			json.NewEncoder(w).Encode(chatResponse(`{"protein":42,"carbs":55,"fats":12,"ingredients":["chicken","rice"]}`))
		})

		result, err := svc.Analyze(ctx, "chicken and rice")
		require.NoError(t, err)
		assert.InDelta(t, 42.0, result.Protein, 0.001)
		assert.InDelta(t, 55.0, result.Carbs, 0.001)
		assert.InDelta(t, 12.0, result.Fats, 0.001)
		assert.Equal(t, []string{"chicken", "rice"}, result.Ingredients)
	})

	t.Run("non-200 status", func(t *testing.T) {
		svc := stubAnalysisServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := svc.Analyze(ctx, "anything")
		assert.ErrorIs(t, err, nutrition.ErrUpstreamUnavailable)
	})

	t.Run("malformed estimate payload", func(t *testing.T) {
		svc := stubAnalysisServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(chatResponse("I had trouble analyzing that meal."))
		})

		_, err := svc.Analyze(ctx, "mystery stew")
		assert.ErrorIs(t, err, nutrition.ErrUpstreamUnavailable)
	})

	t.Run("empty choices", func(t *testing.T) {
		svc := stubAnalysisServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		})

		_, err := svc.Analyze(ctx, "anything")
		assert.ErrorIs(t, err, nutrition.ErrUpstreamUnavailable)
	})

	t.Run("negative macros rejected", func(t *testing.T) {
		svc := stubAnalysisServer(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(chatResponse(`{"protein":-5,"carbs":10,"fats":2}`))
		})

		_, err := svc.Analyze(ctx, "anything")
		assert.ErrorIs(t, err, nutrition.ErrUpstreamUnavailable)
	})

	t.Run("unreachable server", func(t *testing.T) {
		svc := &AnalysisService{
			apiKey: "test-api-key",
			apiURL: "http://127.0.0.1:1",
			client: &http.Client{Timeout: time.Second},
		}

		_, err := svc.Analyze(ctx, "anything")
		assert.ErrorIs(t, err, nutrition.ErrUpstreamUnavailable)
	})
}
