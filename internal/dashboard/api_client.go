package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/gymdash/internal/telemetry/tracing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const defaultRequestTimeout = 10 * time.Second

type ClientConfig struct {
	// BaseURL of the lifts api, e.g. http://localhost:9000/api
	BaseURL  string
	Timeout  time.Duration
	ApiToken string
	// Transport is wrapped by otelhttp; defaults to http.DefaultTransport
	Transport http.RoundTripper
}

// ServerError is an error reported by the api, either via an {"error": "..."}
// body or a failing status code.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error [%d]: %s", e.StatusCode, e.Message)
}

type Series struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

type Recommendations struct {
	Heavy int `json:"heavy"`
	Hyper int `json:"hyper"`
}

type PredictionResult struct {
	CurrentPR  int             `json:"current_pr"`
	NextWeekPR int             `json:"next_week_pr"`
	Rank       string          `json:"rank"`
	Recs       Recommendations `json:"recs"`
	History    Series          `json:"history"`
	Prediction Series          `json:"prediction"`
}

type AnatomyDistribution struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type BodyWeightSetting struct {
	Bodyweight float64 `json:"bodyweight"`
}

// AddRequest mirrors the form inputs, so all fields travel as strings.
type AddRequest struct {
	Date     string `json:"date"`
	Exercise string `json:"exercise"`
	Weight   string `json:"weight"`
	Reps     string `json:"reps"`
}

type AddResult struct {
	Message string `json:"message"`
	NewPR   int    `json:"new_pr"`
}

type messageResult struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type ApiClient struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

func NewApiClient(cfg ClientConfig) *ApiClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &ApiClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiToken: cfg.ApiToken,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
	}
}

func (c *ApiClient) Exercises(ctx context.Context) ([]string, error) {
	var exercises []string
	if err := c.do(ctx, http.MethodGet, "/exercises", nil, "", &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (c *ApiClient) Settings(ctx context.Context) (BodyWeightSetting, error) {
	var settings BodyWeightSetting
	err := c.do(ctx, http.MethodGet, "/settings", nil, "", &settings)
	return settings, err
}

// SaveSettings posts the raw body-weight input, exactly as typed.
func (c *ApiClient) SaveSettings(ctx context.Context, bodyweight string) (string, error) {
	body, err := json.Marshal(map[string]string{"bodyweight": bodyweight})
	if err != nil {
		return "", fmt.Errorf("marshal settings: %w", err)
	}

	var res messageResult
	if err := c.do(ctx, http.MethodPost, "/settings", bytes.NewReader(body), "application/json", &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *ApiClient) Upload(ctx context.Context, fileName string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("copy upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	var res messageResult
	if err := c.do(ctx, http.MethodPost, "/upload", &buf, mw.FormDataContentType(), &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *ApiClient) Predict(ctx context.Context, exercise string) (*PredictionResult, error) {
	body, err := json.Marshal(map[string]string{"exercise": exercise})
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	var res PredictionResult
	if err := c.do(ctx, http.MethodPost, "/predict", bytes.NewReader(body), "application/json", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *ApiClient) Anatomy(ctx context.Context) (AnatomyDistribution, error) {
	var res AnatomyDistribution
	err := c.do(ctx, http.MethodGet, "/anatomy", nil, "", &res)
	return res, err
}

func (c *ApiClient) Add(ctx context.Context, req AddRequest) (AddResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return AddResult{}, fmt.Errorf("marshal add request: %w", err)
	}

	var res AddResult
	err = c.do(ctx, http.MethodPost, "/add", bytes.NewReader(body), "application/json", &res)
	return res, err
}

func (c *ApiClient) do(
	ctx context.Context,
	method, path string,
	body io.Reader,
	contentType string,
	target any,
) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "apiClient.do")
	span.SetAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	// domain errors may arrive with a 200, so the body is checked first
	var errBody struct {
		Error string `json:"error"`
	}
	if jsonErr := json.Unmarshal(respBytes, &errBody); jsonErr == nil && errBody.Error != "" {
		return &ServerError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &ServerError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBytes))}
	}

	if target == nil || len(respBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, target); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
