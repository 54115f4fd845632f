package advisory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-conflict-api/internal/models"
	"github.com/noah-isme/sma-conflict-api/pkg/config"
)

func testConfig(baseURL string) config.AdvisoryConfig {
	return config.AdvisoryConfig{
		Enabled:  true,
		BaseURL:  baseURL,
		Model:    "mistral:7b-instruct",
		Timeout:  2 * time.Second,
		CacheTTL: time.Minute,
	}
}

func TestHintDisabledReturnsNothing(t *testing.T) {
	client := NewClient(config.AdvisoryConfig{Enabled: false}, nil, nil)
	hint, err := client.Hint(context.Background(), &models.Conflict{ID: "conf-1"})
	require.NoError(t, err)
	assert.Empty(t, hint)
	assert.False(t, client.Available(context.Background()))
}

func TestHintCallsGenerateEndpoint(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel, _ = req["model"].(string)
		json.NewEncoder(w).Encode(map[string]string{"response": " swap the two afternoon sections "})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, nil)
	hint, err := client.Hint(context.Background(), &models.Conflict{
		ID:    "conf-1",
		Type:  models.ConflictRoomDoubleBooking,
		Title: "Room Double-Booked",
	})
	require.NoError(t, err)
	assert.Equal(t, "swap the two afternoon sections", hint)
	assert.Equal(t, "mistral:7b-instruct", gotModel)
}

func TestHintSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, nil)
	_, err := client.Hint(context.Background(), &models.Conflict{ID: "conf-1"})
	assert.Error(t, err)
}

func TestAvailableProbesTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, nil)
	assert.True(t, client.Available(context.Background()))
}
