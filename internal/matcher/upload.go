package matcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-matcher/internal/results"
)

const (
	apiUploadPath = "/upload"

	// MaxFileSize is the largest resume accepted before any network call.
	MaxFileSize = 16 * 1024 * 1024
)

// AllowedExtensions are compared case-insensitively, without the dot.
var AllowedExtensions = []string{"pdf", "docx", "doc", "txt"}

// UploadedFile is a resume stored by the API.
type UploadedFile struct {
	// Filename is the server-side name used by every later request.
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
}

// UploadResult is the outcome for one path of a batch upload.
type UploadResult struct {
	Path string
	File *UploadedFile
	Err  error
}

type uploadResponse struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// ValidateFile applies the local extension and size checks.
func ValidateFile(name string, size int64) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if !slices.Contains(AllowedExtensions, ext) {
		return &results.ValidationError{
			Field:  name,
			Reason: "unsupported file type, only PDF, DOCX, DOC and TXT files are supported",
		}
	}

	if size > MaxFileSize {
		return &results.ValidationError{
			Field:  name,
			Reason: fmt.Sprintf("file is too large, maximum size is %dMB", MaxFileSize/(1024*1024)),
		}
	}

	return nil
}

// Upload validates and uploads the resume at path.
func (c *Client) Upload(ctx context.Context, path string) (*UploadedFile, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, &results.ValidationError{Field: path, Reason: "is a directory"}
	}

	name := filepath.Base(path)
	if err := ValidateFile(name, stat.Size()); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var resp uploadResponse
	if err := c.postFile(ctx, "upload", apiUploadPath, name, file, &resp); err != nil {
		return nil, err
	}

	if resp.Filename == "" {
		return nil, &ApplicationError{Operation: "upload", Message: "server did not return a filename"}
	}

	c.logger.Debug("uploaded resume", zap.String("path", path), zap.String("filename", resp.Filename))

	return &UploadedFile{
		Filename:     resp.Filename,
		OriginalName: name,
		Size:         stat.Size(),
	}, nil
}

// UploadAll uploads paths with at most concurrency requests in flight and
// returns one result per path, in input order. A failing file never stops
// the batch. Concurrency below 2 uploads strictly one file at a time.
func (c *Client) UploadAll(ctx context.Context, paths []string, concurrency int) []UploadResult {
	out := make([]UploadResult, len(paths))
	if concurrency < 1 {
		concurrency = 1
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			file, err := c.Upload(ctx, path)
			out[i] = UploadResult{Path: path, File: file, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return out
}
