package results

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DumpFormat is the encoding used by DumpToTmpFile.
type DumpFormat string

const (
	DumpJSON DumpFormat = "json"
	DumpYAML DumpFormat = "yaml"
)

func ParseDumpFormat(s string) (DumpFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return DumpJSON, nil
	case "yaml", "yml":
		return DumpYAML, nil
	default:
		return "", &ValidationError{Field: "format", Reason: fmt.Sprintf("unsupported dump format %q", s)}
	}
}

// DumpToTmpFile writes items to a new temporary file and returns its name.
func DumpToTmpFile(items []CandidateMatch, format DumpFormat) (string, error) {
	file, err := os.CreateTemp("", "candidates_*."+string(format))
	if err != nil {
		return "", err
	}
	defer file.Close()

	switch format {
	case DumpYAML:
		enc := yaml.NewEncoder(file)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", err
		}
	default:
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
	}

	return file.Name(), nil
}
