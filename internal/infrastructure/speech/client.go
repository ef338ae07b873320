package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/skiconcierge/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Default synthesis settings
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "tts-1"
	DefaultVoice   = "nova"
	DefaultSpeed   = 1.0

	maxAttempts  = 3
	maxErrorBody = 1 << 10
	maxAudioBody = 10 << 20
)

// Config holds text-to-speech settings
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
	Speed   float64
}

// Client calls an OpenAI-compatible /audio/speech endpoint
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	voice       string
	speed       float64
	rateLimiter *rate.Limiter
	debug       bool
	// maxAudio is the largest accepted response; anything bigger is a failure
	maxAudio int64
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed"`
	ResponseFormat string  `json:"response_format"`
}

// NewClient creates a new speech client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.Speed <= 0 {
		cfg.Speed = DefaultSpeed
	}

	// 50 requests per minute, burst of 5
	limiter := rate.NewLimiter(rate.Limit(50.0/60.0), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		voice:       cfg.Voice,
		speed:       cfg.Speed,
		rateLimiter: limiter,
		maxAudio:    maxAudioBody,
	}
}

// SetDebug toggles request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(msg string, fields ...zap.Field) {
	if c.debug {
		zap.L().Debug(msg, fields...)
	}
}

// exponentialBackoff returns the wait before retrying after attempt (1-based)
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// retryable reports whether a status is worth retrying
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// Synthesize returns MP3 audio for text
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(speechRequest{
		Model:          c.model,
		Input:          text,
		Voice:          c.voice,
		Speed:          c.speed,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, eris.Wrap(err, "encode speech request")
	}

	endpoint := c.baseURL + "/audio/speech"
	c.debugLog("speech request", zap.String("endpoint", endpoint), zap.Int("chars", len(text)))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrSpeechFailure, err)
		}

		audio, retry, err := c.doRequest(ctx, endpoint, payload)
		if err == nil {
			c.debugLog("speech response", zap.Int("bytes", len(audio)), zap.Int("attempt", attempt))
			return audio, nil
		}

		lastErr = err
		if !retry || attempt == maxAttempts {
			break
		}

		zap.L().Warn("speech request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", domain.ErrSpeechFailure, ctx.Err())
		case <-time.After(exponentialBackoff(attempt)):
		}
	}

	return nil, lastErr
}

// doRequest performs one POST; retry reports whether the failure is transient
func (c *Client) doRequest(ctx context.Context, endpoint string, payload []byte) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", domain.ErrSpeechFailure, eris.Wrap(err, "create request"))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "SkiConcierge/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("%w: %w", domain.ErrSpeechFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := readLimitedBody(resp.Body, maxErrorBody)
		return nil, retryable(resp.StatusCode),
			fmt.Errorf("%w: status %d, body: %s", domain.ErrSpeechFailure, resp.StatusCode, string(body))
	}

	audio, err := readLimitedBody(resp.Body, c.maxAudio+1)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %w", domain.ErrSpeechFailure, eris.Wrap(err, "read audio"))
	}
	if int64(len(audio)) > c.maxAudio {
		return nil, false, fmt.Errorf("%w: audio exceeds %d bytes", domain.ErrSpeechFailure, c.maxAudio)
	}
	if len(audio) == 0 {
		return nil, false, fmt.Errorf("%w: empty audio", domain.ErrSpeechFailure)
	}
	return audio, false, nil
}
