package matcher

import (
	"context"
	"strings"
)

const (
	apiDeletePath = "/delete-file"
	apiParsePath  = "/parse-resume"
)

type filenameRequest struct {
	Filename string `json:"filename" validate:"required"`
}

// ParsedResume is the structured data the API extracted from one resume.
type ParsedResume struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`
	Keywords   []string `json:"keywords"`
}

type parseResponse struct {
	Data map[string]any `json:"data"`
}

// Delete removes an uploaded resume from the server.
func (c *Client) Delete(ctx context.Context, filename string) error {
	req := filenameRequest{Filename: strings.TrimSpace(filename)}
	if err := validateRequest(req); err != nil {
		return err
	}

	return c.postJSON(ctx, "delete file", apiDeletePath, req, nil)
}

// Parse asks the API for the structured contents of an uploaded resume.
func (c *Client) Parse(ctx context.Context, filename string) (*ParsedResume, error) {
	req := filenameRequest{Filename: strings.TrimSpace(filename)}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var resp parseResponse
	if err := c.postJSON(ctx, "parse resume", apiParsePath, req, &resp); err != nil {
		return nil, err
	}

	if resp.Data == nil {
		return nil, &ApplicationError{Operation: "parse resume", Message: "response has no data"}
	}

	var parsed ParsedResume
	if err := decodeItems(resp.Data, &parsed); err != nil {
		return nil, &ApplicationError{Operation: "parse resume", Message: err.Error()}
	}

	if parsed.Skills == nil {
		parsed.Skills = []string{}
	}

	return &parsed, nil
}
