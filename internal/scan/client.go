// Package scan integrates with the Mindee document-recognition API to extract
// transaction fields from receipt images. Mindee publishes no Go SDK, so the
// client speaks the REST API directly and the response is decoded by a
// tagged-variant parser per known response shape.
package scan

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	// receiptPredictURL is the synchronous expense-receipts prediction endpoint.
	receiptPredictURL = "https://api.mindee.net/v1/products/mindee/expense_receipts/v5/predict"

	// inferencePredictURL is the prediction endpoint for a custom model; the
	// model ID is appended as a path segment.
	inferencePredictURL = "https://api.mindee.net/v2/inferences/"

	requestTimeout = 30 * time.Second
)

// Recognizer turns an uploaded receipt document into parsed fields.
type Recognizer interface {
	Recognize(ctx context.Context, filename string, document io.Reader) (*ParsedReceipt, error)
}

// Client calls the Mindee prediction API.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Mindee client with the given API key. When modelID is
// non-empty the custom-model inference endpoint is used instead of the stock
// expense-receipts product.
func NewClient(apiKey, modelID string) *Client {
	endpoint := receiptPredictURL
	if modelID != "" {
		endpoint = inferencePredictURL + modelID
	}
	return &Client{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Recognize uploads the document and parses the prediction response.
func (c *Client) Recognize(ctx context.Context, filename string, document io.Reader) (*ParsedReceipt, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return nil, fmt.Errorf("create multipart: %w", err)
	}
	if _, err := io.Copy(part, document); err != nil {
		return nil, fmt.Errorf("copy document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call mindee: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read mindee response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mindee returned status %d: %s", resp.StatusCode, truncate(raw, 256))
	}

	return Parse(raw)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
