// Auspex - Social Content Virality Prediction and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auspex

package mlruntime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/auspex/internal/config"
	"github.com/tomtom215/auspex/internal/metrics"
)

const (
	breakerName = "model-runtime"

	// maxResponseBytes bounds response reads so a misbehaving runtime
	// cannot exhaust memory.
	maxResponseBytes = 4 << 20

	// maxErrorSnippet bounds error bodies quoted into error messages.
	maxErrorSnippet = 1 << 10
)

// Client defaults, applied when the config leaves a knob at zero.
const (
	defaultCallTimeout  = 5 * time.Second
	defaultTrainTimeout = 60 * time.Second
	defaultRPS          = 20.0
	defaultBurst        = 10
	defaultBreakerTrips = 5
	defaultCooldown     = 30 * time.Second
)

// HTTPClient talks to the Model Runtime over HTTP. Every call is rate
// limited, wrapped in a circuit breaker, bounded by a per-call timeout,
// and reported to the runtime metrics. Failures map onto the three typed
// runtime errors so the engine can branch without string matching.
//
// Thread safety: safe for concurrent use; each request is independent.
type HTTPClient struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	limiter      *rate.Limiter
	cb           *gobreaker.CircuitBreaker[[]byte]
	logger       zerolog.Logger
	callTimeout  time.Duration
	trainTimeout time.Duration
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a Model Runtime client from configuration.
// Inference calls are bounded by cfg.Timeout; training submissions and
// job polls by cfg.TrainTimeout. The circuit breaker opens after
// cfg.BreakerFailures consecutive failures and stays open for
// cfg.BreakerCooldown.
func NewHTTPClient(cfg *config.RuntimeConfig, logger *zerolog.Logger) *HTTPClient {
	callTimeout := cfg.Timeout
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	trainTimeout := cfg.TrainTimeout
	if trainTimeout <= 0 {
		trainTimeout = defaultTrainTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	trips := cfg.BreakerFailures
	if trips == 0 {
		trips = defaultBreakerTrips
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}

	log := logger.With().Str("component", "mlruntime").Logger()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := breakerStateString(from), breakerStateString(to)
			log.Warn().Str("from", fromStr).Str("to", toStr).Msg("Model Runtime circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			// Backstop only; per-call contexts carry the real deadlines.
			Timeout: trainTimeout + 5*time.Second,
		},
		limiter:      rate.NewLimiter(rate.Limit(rps), burst),
		cb:           cb,
		logger:       log,
		callTimeout:  callTimeout,
		trainTimeout: trainTimeout,
	}
}

// RegisterModel registers a model spec and returns its runtime ID.
func (c *HTTPClient) RegisterModel(ctx context.Context, spec *ModelSpec) (string, error) {
	if spec == nil || spec.Name == "" {
		return "", fmt.Errorf("%w: register requires a named model spec", ErrRuntimeError)
	}
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var out struct {
		ModelID string `json:"model_id"`
	}
	if err := c.do(ctx, "register", http.MethodPost, "/v1/models", spec, &out); err != nil {
		return "", err
	}
	if out.ModelID == "" {
		return "", fmt.Errorf("%w: register response missing model_id", ErrRuntimeError)
	}
	return out.ModelID, nil
}

// Predict runs inference against a registered model.
func (c *HTTPClient) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if req == nil || req.ModelID == "" {
		return nil, fmt.Errorf("%w: predict requires a model ID", ErrRuntimeError)
	}
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var out PredictResponse
	path := "/v1/models/" + url.PathEscape(req.ModelID) + "/predict"
	if err := c.do(ctx, "predict", http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TrainModel submits a training run and returns its job ID.
func (c *HTTPClient) TrainModel(ctx context.Context, req *TrainRequest) (string, error) {
	if req == nil || req.ModelID == "" {
		return "", fmt.Errorf("%w: train requires a model ID", ErrRuntimeError)
	}
	if len(req.Points) == 0 {
		return "", fmt.Errorf("%w: train requires at least one point", ErrRuntimeError)
	}
	ctx, cancel := context.WithTimeout(ctx, c.trainTimeout)
	defer cancel()

	var out struct {
		JobID string `json:"job_id"`
	}
	path := "/v1/models/" + url.PathEscape(req.ModelID) + "/train"
	if err := c.do(ctx, "train", http.MethodPost, path, req, &out); err != nil {
		return "", err
	}
	if out.JobID == "" {
		return "", fmt.Errorf("%w: train response missing job_id", ErrRuntimeError)
	}
	return out.JobID, nil
}

// GetTrainingJob reports the state of a submitted training run.
func (c *HTTPClient) GetTrainingJob(ctx context.Context, jobID string) (*TrainingJob, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: job lookup requires an ID", ErrRuntimeError)
	}
	ctx, cancel := context.WithTimeout(ctx, c.trainTimeout)
	defer cancel()

	var out TrainingJob
	if err := c.do(ctx, "job_status", http.MethodGet, "/v1/jobs/"+url.PathEscape(jobID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetModelMetrics reports a model's latest evaluation metrics.
func (c *HTTPClient) GetModelMetrics(ctx context.Context, modelID string) (*ModelMetrics, error) {
	if modelID == "" {
		return nil, fmt.Errorf("%w: metrics lookup requires a model ID", ErrRuntimeError)
	}
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var out ModelMetrics
	path := "/v1/models/" + url.PathEscape(modelID) + "/metrics"
	if err := c.do(ctx, "metrics", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping verifies the runtime is reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return c.do(ctx, "ping", http.MethodGet, "/v1/health", nil, nil)
}

// do runs one runtime call end to end: rate limit, encode, breaker-guarded
// round trip, decode, metrics.
func (c *HTTPClient) do(ctx context.Context, operation, method, path string, payload, out any) error {
	start := time.Now()
	err := c.call(ctx, method, path, payload, out)
	metrics.RecordRuntimeCall(operation, time.Since(start), errorType(err))
	if err != nil {
		c.logger.Debug().Err(err).Str("operation", operation).Msg("Model Runtime call failed")
	}
	return err
}

func (c *HTTPClient) call(ctx context.Context, method, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		// Wait fails when the context ends or its deadline cannot cover
		// the wait for a token.
		return fmt.Errorf("%w: rate limiter: %v", ErrRuntimeTimeout, err)
	}

	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: encode %s %s: %v", ErrRuntimeError, method, path, err)
		}
		body = b
	}

	raw, err := c.cb.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, method, path, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			return fmt.Errorf("%w: circuit breaker rejected %s %s: %w", ErrRuntimeUnavailable, method, path, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrRuntimeError, path, err)
	}
	return nil
}

// roundTrip performs the HTTP exchange and maps transport and status
// failures onto the typed runtime errors.
func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRuntimeError, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s %s: %v", ErrRuntimeTimeout, method, path, err)
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrRuntimeUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", ErrRuntimeUnavailable, path, err)
	}

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return raw, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: %s %s returned %d: %s",
			ErrRuntimeUnavailable, method, path, resp.StatusCode, errorMessage(raw))
	default:
		return nil, fmt.Errorf("%w: %s %s returned %d: %s",
			ErrRuntimeError, method, path, resp.StatusCode, errorMessage(raw))
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// errorMessage extracts the runtime's error envelope from a failure body,
// falling back to a bounded raw snippet.
func errorMessage(raw []byte) string {
	if len(raw) == 0 {
		return "(empty body)"
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	if len(raw) > maxErrorSnippet {
		raw = raw[:maxErrorSnippet]
	}
	return string(raw)
}

// errorType labels a call result for the runtime error metric.
func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, ErrRuntimeTimeout):
		return "timeout"
	case errors.Is(err, ErrRuntimeUnavailable):
		return "unavailable"
	default:
		return "remote"
	}
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
