// internal/nlu/remote/remote.go
// Package remote is an NLU strategy backed by an external intent API. It is
// meant to sit in front of the core processor in an nlu.Chain.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	httpclient "krishi-workers/internal/common/http"
	"krishi-workers/internal/common/logger"
	"krishi-workers/internal/models"
	"krishi-workers/internal/nlu"
)

const (
	StrategyName = models.ProviderRemote
	parsePath    = "/api/nlu/parse"
)

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	// Store resolves the language reported by the API to a known lexicon
	// tag. Nil means nlu.DefaultStore().
	Store *nlu.Store
}

type Strategy struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func New(config *Config, log logger.Logger) *Strategy {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if config.Store == nil {
		config.Store = nlu.DefaultStore()
	}
	return &Strategy{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"strategy": StrategyName}),
	}
}

type parseRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type parseResponse struct {
	Intent     string              `json:"intent"`
	Confidence *float64            `json:"confidence"`
	Entities   map[string][]string `json:"entities"`
	Language   string              `json:"language"`
}

func (s *Strategy) Name() string {
	return StrategyName
}

// Process calls the remote API with retries and exponential backoff. Every
// failure is returned as an *nlu.StrategyError carrying a typed reason.
func (s *Strategy) Process(ctx context.Context, text, languageHint string) (models.NLUResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return models.NLUResult{}, s.fail(nlu.ReasonTimeout, ctx.Err())
			}
		}

		result, err := s.call(ctx, text, languageHint)
		if err == nil {
			s.logger.Debug("remote intent parsed", map[string]interface{}{
				"intent":     result.Intent,
				"confidence": result.Confidence,
				"attempt":    attempt + 1,
			})
			return result, nil
		}

		var se *nlu.StrategyError
		if errors.As(err, &se) && se.Reason != nlu.ReasonUnavailable {
			return models.NLUResult{}, err
		}
		lastErr = err

		s.logger.Warn("remote intent call failed", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   err,
		})
	}

	return models.NLUResult{}, lastErr
}

func (s *Strategy) call(ctx context.Context, text, languageHint string) (models.NLUResult, error) {
	headers := map[string]string{}
	if s.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + s.config.APIKey
	}

	resp, err := s.client.PostJSON(ctx, strings.TrimRight(s.config.BaseURL, "/")+parsePath,
		parseRequest{Text: text, Language: languageHint}, headers)
	if err != nil {
		var netErr net.Error
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return models.NLUResult{}, s.fail(nlu.ReasonTimeout, err)
		}
		return models.NLUResult{}, s.fail(nlu.ReasonUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return models.NLUResult{}, s.fail(nlu.ReasonAuth, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return models.NLUResult{}, s.fail(nlu.ReasonUnavailable, fmt.Errorf("status %d", resp.StatusCode))
	}

	var body parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if ctx.Err() != nil {
			return models.NLUResult{}, s.fail(nlu.ReasonTimeout, err)
		}
		return models.NLUResult{}, s.fail(nlu.ReasonMalformedResponse, fmt.Errorf("decode: %w", err))
	}

	return s.toResult(body, text, languageHint)
}

func (s *Strategy) toResult(body parseResponse, text, languageHint string) (models.NLUResult, error) {
	intent := models.Intent(strings.ToLower(body.Intent))
	if !intent.IsValid() {
		return models.NLUResult{}, s.fail(nlu.ReasonMalformedResponse, fmt.Errorf("unknown intent %q", body.Intent))
	}
	if body.Confidence == nil || *body.Confidence < 0 || *body.Confidence > 1 {
		return models.NLUResult{}, s.fail(nlu.ReasonMalformedResponse, errors.New("confidence missing or outside [0,1]"))
	}

	entities := models.Entities{}
	for k, values := range body.Entities {
		entityType := models.EntityType(strings.ToLower(k))
		if !entityType.IsValid() {
			s.logger.Debug("dropping unknown remote entity type", map[string]interface{}{"entityType": k})
			continue
		}
		if len(values) > 0 {
			entities[entityType] = append(entities[entityType], values...)
		}
	}

	language := body.Language
	if language == "" {
		language = languageHint
	}
	if language == "" {
		language = nlu.DetectLanguage(text)
	}
	language = s.config.Store.Resolve(language)

	return models.NLUResult{
		Intent:     intent,
		Confidence: *body.Confidence,
		Entities:   entities,
		Language:   language,
		SourceText: text,
		Provider:   models.ProviderRemote,
	}, nil
}

func (s *Strategy) fail(reason nlu.FailureReason, err error) error {
	return nlu.NewStrategyError(StrategyName, reason, err)
}
