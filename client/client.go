package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Fahada-Code/Predictive-Business-Insights-Platform/forecast"
	"github.com/goccy/go-json"
)

const (
	ForecastPath = "/forecast"
	FileField    = "file"

	DefaultTimeout = 60 * time.Second

	// maxErrorBody caps how much of an error response is read for its detail
	maxErrorBody = 64 << 10
)

var (
	ErrNoBaseURL    = errors.New("no forecasting service base url")
	ErrNoFilename   = errors.New("no upload filename")
	ErrEmptyPayload = errors.New("forecasting service returned an empty body")
)

// StatusError is returned when the forecasting service answers with a non 2xx status
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("forecasting service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("forecasting service returned status %d: %s", e.StatusCode, e.Detail)
}

// Client uploads datasets to the forecasting service
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service at baseURL. A nil httpClient uses one with DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Forecast uploads the dataset read from r as filename and decodes the forecast response
func (c *Client) Forecast(ctx context.Context, filename string, r io.Reader, params forecast.Parameters) (*forecast.Results, error) {
	if c.baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if filename == "" {
		return nil, ErrNoFilename
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := c.endpoint(params)
	if err != nil {
		return nil, err
	}

	body, contentType, err := multipartBody(filename, r)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("unable to create forecast request, %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to reach forecasting service, %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read forecast response, %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyPayload
	}

	var res forecast.Results
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("unable to decode forecast response, %w", err)
	}
	return &res, nil
}

func (c *Client) endpoint(params forecast.Parameters) (string, error) {
	u, err := url.Parse(c.baseURL + ForecastPath)
	if err != nil {
		return "", fmt.Errorf("unable to parse forecasting service url, %w", err)
	}
	q := u.Query()
	q.Set("days", strconv.Itoa(params.Days))
	q.Set("seasonality_mode", string(params.SeasonalityMode))
	q.Set("growth", string(params.Growth))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func multipartBody(filename string, r io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(FileField, filename)
	if err != nil {
		return nil, "", fmt.Errorf("unable to create upload form, %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", fmt.Errorf("unable to copy upload, %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("unable to finalize upload form, %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// newStatusError pulls the detail message out of an error body. The service answers
// {"detail": "..."} on validation errors, anything else is kept as plain text.
func newStatusError(resp *http.Response) *StatusError {
	statusErr := &StatusError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return statusErr
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil {
			statusErr.Detail = detail
		} else {
			statusErr.Detail = string(payload.Detail)
		}
		return statusErr
	}
	statusErr.Detail = strings.TrimSpace(string(raw))
	return statusErr
}
