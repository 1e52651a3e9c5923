package matcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	requestIDHeader = "X-Request-ID"
)

// envelope is the part of every API response that signals application failures.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(op, req, target)
}

func (c *Client) getJSON(ctx context.Context, op, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return err
	}

	return c.do(op, req, target)
}

// postFile uploads r as the multipart field "file".
func (c *Client) postFile(ctx context.Context, op, path, filename string, r io.Reader, target any) error {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err = io.Copy(part, r); err != nil {
		return fmt.Errorf("%s: read %s: %w", op, filename, err)
	}
	if err = w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), &b)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(op, req, target)
}

func (c *Client) do(op string, req *http.Request, target any) error {
	requestID := uuid.NewString()
	c.setHeaders(req, requestID)

	log := logger.WithFields(c.logger, logger.APIFields(op, requestID)...)

	resp, err := c.request(log, req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
		}
		return fmt.Errorf("%s: %w: %w", op, ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	log.Debug("got response", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(data)))

	var env envelope
	// error bodies are not guaranteed to be JSON
	_ = json.Unmarshal(data, &env)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &ServerError{
			Operation:  op,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    env.Error,
		}
	}

	if env.Error != "" || (env.Success != nil && !*env.Success) {
		return &ApplicationError{Operation: op, Message: env.Error}
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}

	return nil
}

func (c *Client) request(log *zap.Logger, req *http.Request) (*http.Response, error) {
	log.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request, requestID string) {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set(requestIDHeader, requestID)
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	return io.ReadAll(reader)
}

// decodeItems decodes loosely typed JSON values into out using json tags.
func decodeItems(input, out any) error {
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	if err := decoder.Decode(input); err != nil {
		return errors.Join(errors.New("unexpected response shape"), err)
	}
	return nil
}
