package matcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/results"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(zap.NewNop(), Config{BaseURL: srv.URL + "/api/", Token: "secret"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeResume(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	c := New(nil, Config{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, userAgent, c.UserAgent)
	assert.Equal(t, defaultTimeout, c.HTTPClient.Timeout)

	c = New(nil, Config{BaseURL: " http://api.local/api/ ", UserAgent: "custom"})
	assert.Equal(t, "http://api.local/api", c.BaseURL)
	assert.Equal(t, "custom", c.UserAgent)
}

func TestValidateFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		file  string
		size  int64
		valid bool
	}{
		{name: "pdf", file: "cv.pdf", size: 1024, valid: true},
		{name: "upper case extension", file: "CV.DOCX", size: 1024, valid: true},
		{name: "doc", file: "cv.doc", size: 1, valid: true},
		{name: "txt at the limit", file: "cv.txt", size: MaxFileSize, valid: true},
		{name: "too large", file: "cv.pdf", size: MaxFileSize + 1},
		{name: "image", file: "cv.png", size: 10},
		{name: "no extension", file: "resume", size: 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateFile(tt.file, tt.size)
			if tt.valid {
				assert.NoError(t, err)
				return
			}

			var verr *results.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestUploadSendsMultipartFile(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get(requestIDHeader))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, "resume body", string(content))

		writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "filename": "20240101_cv.pdf"})
	})

	path := writeResume(t, t.TempDir(), "cv.pdf", "resume body")

	got, err := client.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, &UploadedFile{Filename: "20240101_cv.pdf", OriginalName: "cv.pdf", Size: int64(len("resume body"))}, got)
}

func TestUploadRejectsBeforeNetwork(t *testing.T) {
	t.Parallel()

	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	dir := t.TempDir()
	_, err := client.Upload(context.Background(), writeResume(t, dir, "photo.png", "x"))
	var verr *results.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = client.Upload(context.Background(), dir)
	assert.ErrorAs(t, err, &verr)

	assert.Zero(t, calls)
}

func TestUploadAllKeepsOrderAndContinues(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}

		mu.Lock()
		seen = append(seen, header.Filename)
		mu.Unlock()

		if header.Filename == "broken.pdf" {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "could not store file"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"filename": "stored_" + header.Filename})
	})

	dir := t.TempDir()
	paths := []string{
		writeResume(t, dir, "a.pdf", "a"),
		writeResume(t, dir, "broken.pdf", "b"),
		writeResume(t, dir, "skip.png", "c"),
		writeResume(t, dir, "d.txt", "d"),
	}

	for _, concurrency := range []int{1, 3} {
		got := client.UploadAll(context.Background(), paths, concurrency)
		require.Len(t, got, len(paths))

		for i, res := range got {
			assert.Equal(t, paths[i], res.Path)
		}
		assert.Equal(t, "stored_a.pdf", got[0].File.Filename)
		assert.Equal(t, "stored_d.txt", got[3].File.Filename)

		var serverErr *ServerError
		require.ErrorAs(t, got[1].Err, &serverErr)
		assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
		assert.Equal(t, "could not store file", serverErr.Message)

		var verr *results.ValidationError
		assert.ErrorAs(t, got[2].Err, &verr)
	}

	// the sequential pass hits the server in input order
	assert.Equal(t, []string{"a.pdf", "broken.pdf", "d.txt"}, seen[:3])
}

func TestMatch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/match", r.URL.Path)

		var body map[string]any
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			return
		}
		assert.Equal(t, "Go developer", body["job_description"])
		assert.Equal(t, []any{"a.pdf", "b.pdf"}, body["filenames"])
		assert.Equal(t, float64(DefaultTopN), body["top_n"])
		assert.Equal(t, float64(0), body["min_score"])

		writeJSON(w, http.StatusOK, map[string]any{
			"success":       true,
			"total_matched": 2,
			"results": []any{
				map[string]any{"name": "Ada", "email": "ada@example.com", "match_score": 123.4, "skills_match": 50, "skills": []string{"Go"}, "filename": "a.pdf"},
				map[string]any{"name": nil, "match_score": -5, "skills_match": "40", "skills": nil, "filename": "b.pdf"},
			},
		})
	})

	got, err := client.Match(context.Background(), MatchRequest{
		JobDescription: "  Go developer \n",
		Filenames:      []string{"a.pdf", "b.pdf"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Ada", got[0].NameOrEmpty())
	assert.Equal(t, "ada@example.com", got[0].EmailOrEmpty())
	assert.Equal(t, 100.0, got[0].MatchScore)
	assert.Equal(t, 50.0, got[0].SkillsMatch)
	assert.Equal(t, []string{"Go"}, got[0].Skills)

	assert.Nil(t, got[1].Name)
	assert.Equal(t, 0.0, got[1].MatchScore)
	assert.Equal(t, 40.0, got[1].SkillsMatch)
	assert.Equal(t, []string{}, got[1].Skills)
}

func TestMatchValidation(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
		w.WriteHeader(http.StatusOK)
	})

	tests := map[string]struct {
		req   MatchRequest
		field string
	}{
		"empty job description": {req: MatchRequest{JobDescription: "   ", Filenames: []string{"a.pdf"}}, field: "job_description"},
		"no files":              {req: MatchRequest{JobDescription: "Go"}, field: "filenames"},
		"min score above 100":   {req: MatchRequest{JobDescription: "Go", Filenames: []string{"a.pdf"}, MinScore: 101}, field: "min_score"},
		"negative top n":        {req: MatchRequest{JobDescription: "Go", Filenames: []string{"a.pdf"}, TopN: -1}, field: "top_n"},
	}

	for name, tc := range tests {
		_, err := client.Match(context.Background(), tc.req)

		var verr *results.ValidationError
		require.ErrorAs(t, err, &verr, name)
		assert.Equal(t, tc.field, verr.Field, name)
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	t.Run("application error", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "File not found"})
		})

		err := client.Delete(context.Background(), "gone.pdf")
		var appErr *ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "File not found", appErr.Message)
		assert.False(t, IsNetworkUnreachable(err))
	})

	t.Run("server error without json body", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		})

		_, err := client.Health(context.Background())
		var serverErr *ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.StatusBadGateway, serverErr.StatusCode)
		assert.Empty(t, serverErr.Message)
	})

	t.Run("network unreachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		client := New(zap.NewNop(), Config{BaseURL: url})
		_, err := client.Health(context.Background())
		assert.True(t, IsNetworkUnreachable(err))
		assert.ErrorIs(t, err, ErrNetworkUnreachable)
	})

	t.Run("client timeout is not a network error", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			case <-time.After(300 * time.Millisecond):
			}
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		client := New(zap.NewNop(), Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
		_, err := client.Health(context.Background())
		require.Error(t, err)
		assert.True(t, IsTimeout(err))
		assert.False(t, IsNetworkUnreachable(err))
	})

	t.Run("cancelled context is not a network error", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Health(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, IsNetworkUnreachable(err))
	})
}

func TestParseDecodesGzipBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/parse-resume", r.URL.Path)
		assert.Equal(t, "gzip", r.Header.Get("Accept-Encoding"))

		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_ = json.NewEncoder(gz).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"name":     "Ada",
				"email":    "ada@example.com",
				"phone":    "+1 555",
				"skills":   []string{"Go", "SQL"},
				"keywords": []string{"backend"},
			},
		})
		_ = gz.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	})

	got, err := client.Parse(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "+1 555", got.Phone)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
	assert.Equal(t, []string{"backend"}, got.Keywords)

	_, err = client.Parse(context.Background(), " ")
	var verr *results.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestExport(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Results []results.CandidateMatch `json:"results"`
		}
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			assert.Len(t, body.Results, 1)
		}

		writeJSON(w, http.StatusOK, map[string]any{"csv": "Name,Score\nAda,90\n", "filename": "../resume_matches.csv"})
	})

	_, err := client.Export(context.Background(), nil)
	var verr *results.ValidationError
	require.ErrorAs(t, err, &verr)

	exp, err := client.Export(context.Background(), []results.CandidateMatch{{Name: results.Optional("Ada"), MatchScore: 90}})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "exports")
	path, err := exp.WriteTo(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "resume_matches.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name,Score\nAda,90\n", string(content))

	path, err = (&Export{CSV: "x"}).WriteTo(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, defaultCSVName), path)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/health", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "service": "Resume Matcher API"})
	})

	h, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Health{Status: "healthy", Service: "Resume Matcher API"}, h)
}

func TestDecodeItemsRejectsWrongShape(t *testing.T) {
	t.Parallel()

	_, err := decodeCandidates([]any{"not an object"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response shape")
}
