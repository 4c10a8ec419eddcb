package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/yildizm/SysSecura/internal/logger"
)

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 64 << 20

// Predictor classifies a batch of log records
type Predictor interface {
	Predict(ctx context.Context, payload json.RawMessage) ([]Record, error)
}

// Client posts log payloads to the prediction endpoint
type Client struct {
	config   *Config
	client   *http.Client
	endpoint *url.URL
	log      *logger.Logger
}

// New creates a client for the configured endpoint
func New(config *Config, log *logger.Logger) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(config.Endpoint)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		config:   config,
		client:   &http.Client{Timeout: config.Timeout},
		endpoint: endpoint,
		log:      log.WithComponent("predict"),
	}, nil
}

// Endpoint returns the URL requests are sent to
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// ParsePayload checks that text is a single JSON value and returns it compacted.
// Key order and number literals are kept as written.
func ParsePayload(text string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, NewErrorWithCause(KindParse, "", err)
	}

	var b bytes.Buffer
	if err := json.Compact(&b, raw); err != nil {
		return nil, NewErrorWithCause(KindParse, "", err)
	}
	return b.Bytes(), nil
}

// Predict sends one POST with the payload as body and returns the classified records in
// the order the service sent them.
func (c *Client) Predict(ctx context.Context, payload json.RawMessage) ([]Record, error) {
	startTime := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, NewErrorWithCause(KindInternal, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, NewErrorWithCause(KindTransport, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, NewErrorWithCause(KindTransport, "", err)
	}

	c.log.DebugWithFields("prediction response received", []logger.Field{
		logger.F("status", resp.StatusCode),
		logger.F("bytes", len(body)),
		logger.Duration(time.Since(startTime)),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewRemoteError(resp.StatusCode, remoteErrorMessage(body))
	}

	return decodeRecords(body)
}

// remoteErrorMessage extracts the "error" string of a failure body, if there is one
func remoteErrorMessage(body []byte) string {
	var errorResp struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &errorResp) != nil {
		return ""
	}
	var message string
	if json.Unmarshal(errorResp.Error, &message) != nil {
		return ""
	}
	return message
}

func decodeRecords(body []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, NewError(KindResponse, "unexpected response from prediction service: body is not valid JSON")
		}
		return nil, NewError(KindResponse, "unexpected response from prediction service: expected a list of results, got "+describeJSON(trimmed))
	}

	var records []Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, NewErrorWithCause(KindResponse, "unexpected response from prediction service: "+err.Error(), err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
