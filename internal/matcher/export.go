package matcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/resume-matcher/internal/results"
)

const (
	apiExportPath   = "/export"
	defaultCSVName  = "resume_matches.csv"
	exportFilePerms = 0o644
)

// Export is a CSV rendering of a result set produced by the API.
type Export struct {
	CSV      string `json:"csv"`
	Filename string `json:"filename"`
}

type exportRequest struct {
	Results []results.CandidateMatch `json:"results" validate:"min=1"`
}

// Export asks the API to render items as CSV.
func (c *Client) Export(ctx context.Context, items []results.CandidateMatch) (*Export, error) {
	req := exportRequest{Results: items}
	if len(items) == 0 {
		return nil, &results.ValidationError{Field: "results", Reason: "no results to export"}
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var resp Export
	if err := c.postJSON(ctx, "export", apiExportPath, req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// WriteTo stores the CSV in dir under the server-suggested name and returns the path.
func (e *Export) WriteTo(dir string) (string, error) {
	name := filepath.Base(strings.TrimSpace(e.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = defaultCSVName
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(e.CSV), exportFilePerms); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}

	return path, nil
}
