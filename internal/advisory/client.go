package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-conflict-api/internal/models"
	"github.com/noah-isme/sma-conflict-api/pkg/config"
)

// Client talks to an optional local LLM service for advisory hints on
// conflicts. It supplements the heuristic suggestion pipeline and never
// gates it: every failure surfaces as an error the caller logs and drops.
type Client struct {
	cfg    config.AdvisoryConfig
	http   *http.Client
	cache  *redis.Client
	logger *zap.Logger
}

// NewClient constructs the advisory client. The redis cache is optional.
func NewClient(cfg config.AdvisoryConfig, cache *redis.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		cache:  cache,
		logger: logger,
	}
}

// Enabled reports whether the client is configured to run at all.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.Enabled
}

// Available probes the service's model listing endpoint.
func (c *Client) Available(ctx context.Context) bool {
	if !c.Enabled() {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Hint asks the model for a short remediation note on the conflict. Hints
// are cached per conflict so repeated suggestion calls don't re-prompt.
func (c *Client) Hint(ctx context.Context, conflict *models.Conflict) (string, error) {
	if !c.Enabled() {
		return "", nil
	}
	if conflict == nil {
		return "", nil
	}
	cacheKey := fmt.Sprintf("advisory:hint:%s:%s", conflict.Type, conflict.ID)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	prompt := fmt.Sprintf(
		"You advise a school scheduling office. In two sentences, suggest how to resolve this conflict.\nType: %s\nTitle: %s\nDetails: %s",
		conflict.Type, conflict.Title, conflict.Description)
	body, err := json.Marshal(generateRequest{Model: c.cfg.Model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advisory service returned %d", resp.StatusCode)
	}
	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	hint := strings.TrimSpace(decoded.Response)
	if hint == "" {
		return "", nil
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, hint, c.cfg.CacheTTL).Err(); err != nil {
			c.logger.Debug("advisory hint cache write failed", zap.Error(err))
		}
	}
	return hint, nil
}
