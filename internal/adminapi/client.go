// Package adminapi реализует клиент административного API платформы threat-intelligence.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Session описывает то, что клиенту нужно знать о текущей сессии оператора.
// Реализуется контроллером сессии консоли.
type Session interface {
	// APIKey возвращает текущий ключ; false, если оператор не аутентифицирован
	APIKey() (string, bool)
	// Rejected вызывается на 403 с ключом, с которым ушел запрос
	Rejected(key string)
	// Unreachable вызывается на сетевых ошибках
	Unreachable(err error)
}

// Config Параметры клиента, собираются из infra.APIConfig.
type Config struct {
	BaseURL   string
	KeyHeader string
	Timeout   time.Duration

	CBMaxRequests uint32
	CBInterval    time.Duration
	CBTimeout     time.Duration
	CBMaxFailures uint32
}

type Client struct {
	baseURL   string
	keyHeader string
	http      *http.Client
	cb        *gobreaker.CircuitBreaker
	session   Session
	metrics   *Metrics
	logger    *zap.Logger
}

func New(cfg Config, session Session, metrics *Metrics, logger *zap.Logger) *Client {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if cfg.KeyHeader == "" {
		cfg.KeyHeader = "X-API-Key"
	}
	if cfg.CBMaxFailures == 0 {
		cfg.CBMaxFailures = 5
	}

	c := &Client{
		baseURL:   cfg.BaseURL,
		keyHeader: cfg.KeyHeader,
		http:      &http.Client{Timeout: cfg.Timeout},
		session:   session,
		metrics:   metrics,
		logger:    logger.Named("admin-api"),
	}

	// Предохранитель считает только сетевые отказы: ответы сервера
	// (в том числе 4xx/5xx) проходят через Execute как успешные.
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "admin-api",
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.CBMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.metrics.CircuitBreakerState.Set(float64(to))
			c.logger.Warn("circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

type rawResponse struct {
	status int
	body   []byte
}

// do выполняет запрос и применяет правила разбора ответа по порядку:
// сеть -> 403 -> не JSON -> не 2xx -> успех.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	key, ok := c.session.APIKey()
	if !ok {
		return ErrNoAPIKey
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	requestID := uuid.New().String()
	req.Header.Set(c.keyHeader, key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	result, err := c.cb.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return &rawResponse{status: resp.StatusCode, body: data}, nil
	})

	// 1. Сеть, таймаут или разомкнутый предохранитель
	if err != nil {
		c.observe(op, "transport", start)
		return c.unreachable(op, requestID, err)
	}

	raw := result.(*rawResponse)
	c.observe(op, strconv.Itoa(raw.status), start)

	// 2. Ключ отклонен
	if raw.status == http.StatusForbidden {
		c.metrics.ErrorTotal.WithLabelValues(op, "forbidden").Inc()
		c.logger.Warn("api key rejected", zap.String("op", op), zap.String("request_id", requestID))
		c.session.Rejected(key)
		return ErrInvalidAPIKey
	}

	// 3. Тело обязано быть JSON при любом статусе: HTML от прокси (502/504)
	// значит, что до API мы не достучались
	if !json.Valid(raw.body) {
		return c.unreachable(op, requestID, fmt.Errorf("invalid JSON response (status %d)", raw.status))
	}

	// 4. Любой другой не-2xx
	if raw.status < 200 || raw.status > 299 {
		c.metrics.ErrorTotal.WithLabelValues(op, "api").Inc()
		apiErr := &APIError{Op: op, Status: raw.status, Message: detailMessage(raw.body)}
		c.logger.Info("api error",
			zap.String("op", op),
			zap.Int("status", raw.status),
			zap.String("detail", apiErr.Message),
			zap.String("request_id", requestID))
		return apiErr
	}

	// 5. Успех
	if out != nil {
		if err := json.Unmarshal(raw.body, out); err != nil {
			return c.unreachable(op, requestID, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

func (c *Client) unreachable(op, requestID string, cause error) error {
	c.metrics.ErrorTotal.WithLabelValues(op, "transport").Inc()
	c.logger.Error("api request failed",
		zap.String("op", op),
		zap.String("request_id", requestID),
		zap.Error(cause))

	err := &TransportError{Op: op, Err: cause}
	c.session.Unreachable(err)
	return err
}

func (c *Client) observe(op, status string, start time.Time) {
	c.metrics.RequestDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}

// detailMessage достает поле detail из тела ошибки. FastAPI кладет туда
// строку, а для ошибок валидации список; список нам ничего не скажет.
func detailMessage(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return genericAPIMessage
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err != nil || detail == "" {
		return genericAPIMessage
	}
	return detail
}
