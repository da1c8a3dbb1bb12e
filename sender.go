package analyst

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/kiltia/analyst/config"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"resty.dev/v3"
)

// Classification of a single attempt outcome.
type Classification int

const (
	Success Classification = iota
	RetryableFailure
	FatalFailure
)

func (c Classification) String() string {
	switch c {
	case Success:
		return "success"
	case RetryableFailure:
		return "retryable"
	case FatalFailure:
		return "fatal"
	default:
		return "unknown"
	}
}

// credentialMarker is looked up in 400/401 error messages.
const credentialMarker = "API key"

type errorPayload struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Classify maps a status code and response body to a classification and the
// error the attempt should fail with. 429 and 5xx are the only retryable
// statuses.
func Classify(status int, body []byte) (Classification, error) {
	switch {
	case status >= 200 && status < 300:
		return Success, nil
	case status == http.StatusTooManyRequests || status >= 500:
		return RetryableFailure, retryableStatusError(status)
	case status == http.StatusBadRequest || status == http.StatusUnauthorized:
		var payload errorPayload
		if err := json.Unmarshal(body, &payload); err == nil &&
			payload.Error != nil &&
			strings.Contains(payload.Error.Message, credentialMarker) {
			return FatalFailure, ErrInvalidCredential
		}
	}
	return FatalFailure, &HTTPError{StatusCode: status, Body: body}
}

// MaxDelay caps the backoff of late attempts, unless the initial delay is
// already longer.
const MaxDelay = time.Hour

// Delay returns the wait between attempt n and n+1 before jitter is added.
func Delay(initial time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if initial <= 0 {
		return 0
	}
	limit := max(initial, MaxDelay)
	shift := attempt - 1
	if shift >= 63 || initial > limit>>shift {
		return limit
	}
	return initial << shift
}

type AttemptData struct {
	Response *resty.Response
	Error    error
	// Wait that followed this attempt, zero for the last one
	Delay time.Duration
}

type RetryTracker struct {
	attempts []AttemptData
}

func (r *RetryTracker) Add(resp *resty.Response, err error) {
	r.attempts = append(r.attempts, AttemptData{
		Response: resp,
		Error:    err,
	})
}

func (r *RetryTracker) setLastDelay(d time.Duration) {
	if len(r.attempts) > 0 {
		r.attempts[len(r.attempts)-1].Delay = d
	}
}

func (r *RetryTracker) Attempts() []AttemptData {
	attempts := make([]AttemptData, len(r.attempts))
	copy(attempts, r.attempts)
	return attempts
}

type SendResult struct {
	Response *resty.Response
	Attempts []AttemptData
}

// Sender performs a request and retries it with exponential backoff and
// jitter while the failure is transient.
type Sender struct {
	httpClient     *resty.Client
	circuitBreaker *gobreaker.CircuitBreaker[*resty.Response]
	apiKey         string
	cfg            config.RetryConfig
	logger         *zap.SugaredLogger

	jitter func(max time.Duration) time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

type SenderOption func(*Sender)

func WithLogger(logger *zap.SugaredLogger) SenderOption {
	return func(s *Sender) {
		s.logger = logger
	}
}

// WithJitter replaces the uniform [0, max) jitter source.
func WithJitter(jitter func(max time.Duration) time.Duration) SenderOption {
	return func(s *Sender) {
		s.jitter = jitter
	}
}

// WithSleep replaces the context-aware wait between attempts.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) SenderOption {
	return func(s *Sender) {
		s.sleep = sleep
	}
}

func WithCircuitBreaker(cfg config.CircuitBreakerConfig) SenderOption {
	return func(s *Sender) {
		if !cfg.Enabled {
			s.circuitBreaker = nil
			return
		}
		s.circuitBreaker = gobreaker.NewCircuitBreaker[*resty.Response](
			gobreaker.Settings{
				Name:        "generation_requests",
				MaxRequests: cfg.MaxRequests,
				Interval:    cfg.Interval,
				Timeout:     cfg.Timeout,
				ReadyToTrip: func(counts gobreaker.Counts) bool {
					return counts.ConsecutiveFailures > cfg.ConsecutiveFailure
				},
				// fatal errors do not say anything about the API health
				IsSuccessful: func(err error) bool {
					return err == nil || IsFatal(err)
				},
				OnStateChange: func(name string, from, to gobreaker.State) {
					zap.S().Warnw(
						"circuit breaker changed state",
						"name", name,
						"from", from.String(),
						"to", to.String(),
					)
				},
			},
		)
	}
}

func NewSender(
	httpClient *resty.Client,
	apiKey string,
	cfg config.RetryConfig,
	opts ...SenderOption,
) *Sender {
	s := &Sender{
		httpClient: httpClient,
		apiKey:     apiKey,
		cfg:        cfg,
		logger:     zap.S(),
		jitter:     uniformJitter,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.MaxRetries < 1 {
		s.cfg.MaxRetries = 1
	}
	return s
}

func uniformJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return rand.N(max)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NextDelay returns the full wait, jitter included, after a failed attempt.
func (s *Sender) NextDelay(attempt int) time.Duration {
	return Delay(s.cfg.InitialDelay, attempt) + s.jitter(s.cfg.MaxJitter)
}

func (s *Sender) hasCredential(req *Request) bool {
	return s.apiKey != "" || req.RequestURL.Query().Has(CredentialParam)
}

// Send runs the attempt loop. The returned result is non-nil whenever at
// least one attempt was made, so callers can inspect every attempt even on
// failure.
func (s *Sender) Send(ctx context.Context, req *Request) (*SendResult, error) {
	if !s.hasCredential(req) {
		return nil, ErrMissingCredential
	}
	requestURL := req.GetRequestLink(s.apiKey)
	logger := s.logger.With("url", req.RequestURL.Redacted())

	var tracker RetryTracker
	result := func(resp *resty.Response) *SendResult {
		return &SendResult{Response: resp, Attempts: tracker.Attempts()}
	}

	for attempt := 1; ; attempt++ {
		resp, err := s.attempt(ctx, req, requestURL)
		tracker.Add(resp, err)
		if err == nil {
			logger.Debugw("request succeeded", "attempt", attempt)
			return result(resp), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result(resp), ctxErr
		}
		if errors.Is(err, gobreaker.ErrOpenState) ||
			errors.Is(err, gobreaker.ErrTooManyRequests) {
			logger.Warnw("request is rejected by the circuit breaker", "error", err)
			return result(resp), err
		}
		if IsFatal(err) {
			logger.Errorw("request failed with non-retryable error", "attempt", attempt, "error", err)
			return result(resp), err
		}
		if attempt >= s.cfg.MaxRetries {
			logger.Errorw("max retries reached, failing request", "attempt", attempt, "error", err)
			return result(resp), fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, err)
		}

		delay := s.NextDelay(attempt)
		tracker.setLastDelay(delay)
		logger.Warnw(
			"attempt failed, retrying",
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
		if err := s.sleep(ctx, delay); err != nil {
			return result(resp), err
		}
	}
}

func (s *Sender) attempt(
	ctx context.Context,
	req *Request,
	requestURL string,
) (*resty.Response, error) {
	if s.circuitBreaker == nil {
		return s.execute(ctx, req, requestURL)
	}
	return s.circuitBreaker.Execute(func() (*resty.Response, error) {
		return s.execute(ctx, req, requestURL)
	})
}

func (s *Sender) execute(
	ctx context.Context,
	req *Request,
	requestURL string,
) (*resty.Response, error) {
	request := s.httpClient.R().WithContext(ctx).SetHeaders(req.Headers)

	var resp *resty.Response
	var err error
	switch req.Method {
	case config.HTTPMethodGet:
		resp, err = request.Get(requestURL)
	default:
		resp, err = request.SetBody(req.Body).Post(requestURL)
	}
	if err != nil {
		// transport errors are transient
		return resp, fmt.Errorf("sending request: %w", err)
	}
	_, err = Classify(resp.StatusCode(), resp.Bytes())
	return resp, err
}
