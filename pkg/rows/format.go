package rows

import (
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/cogbalance/pkg/errors"
)

// Format identifies a table encoding.
type Format string

const (
	CSV   Format = "csv"
	JSON  Format = "json"
	YAML  Format = "yaml"
	TOML  Format = "toml"
	HJSON Format = "hjson"
)

// Formats lists every supported format.
var Formats = []Format{CSV, JSON, YAML, TOML, HJSON}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return ParseFormat(ext)
}

// ParseFormat parses a format name. "yml" is accepted as YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON, YAML, TOML, HJSON:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported table format %q (use csv, json, yaml, toml or hjson)", s)
	}
}

func (f Format) String() string { return string(f) }
