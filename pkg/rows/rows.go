package rows

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
)

// document is the wrapped shape of the structured formats.
type document struct {
	Rows cog.RowSet `json:"rows" yaml:"rows" toml:"rows"`
}

// Decode parses a table in the given format and validates every row against
// the weight floor.
func Decode(data []byte, f Format, minWeight float64) (cog.RowSet, error) {
	var (
		rs  cog.RowSet
		err error
	)
	switch f {
	case CSV:
		rs, err = decodeCSV(data)
	case JSON:
		rs, err = decodeStructured(data, json.Unmarshal)
	case YAML:
		rs, err = decodeStructured(data, yaml.Unmarshal)
	case HJSON:
		rs, err = decodeStructured(data, hjson.Unmarshal)
	case TOML:
		rs, err = decodeTOML(data)
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported table format %q", f)
	}
	if err != nil {
		return nil, err
	}
	if rs == nil {
		rs = cog.RowSet{}
	}
	if err := rs.Validate(minWeight); err != nil {
		return nil, err
	}
	return rs, nil
}

// decodeStructured accepts either {"rows": [...]} or a bare list. An object
// without a rows key is rejected rather than read as an empty table.
func decodeStructured(data []byte, unmarshal func([]byte, any) error) (cog.RowSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return cog.RowSet{}, nil
	}
	var shape any
	if err := unmarshal(data, &shape); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse table")
	}

	switch v := shape.(type) {
	case nil:
		return cog.RowSet{}, nil
	case map[string]any:
		if _, ok := v["rows"]; !ok {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "table object has no \"rows\" key")
		}
		var doc document
		if err := unmarshal(data, &doc); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse table")
		}
		return doc.Rows, nil
	case []any:
		var rs cog.RowSet
		if err := unmarshal(data, &rs); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse table")
		}
		return rs, nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "table must be a list of rows or an object with a \"rows\" key")
	}
}

// decodeTOML reads [[rows]] tables. Any other top-level key is rejected.
func decodeTOML(data []byte) (cog.RowSet, error) {
	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown toml key %q", undecoded[0].String())
	}
	return doc.Rows, nil
}

// Encode writes rs in the given format.
func Encode(rs cog.RowSet, f Format) ([]byte, error) {
	if rs == nil {
		rs = cog.RowSet{}
	}
	doc := document{Rows: rs}
	switch f {
	case CSV:
		return encodeCSV(rs)
	case JSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case YAML:
		return yaml.Marshal(doc)
	case HJSON:
		return hjson.Marshal(doc)
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported table format %q", f)
	}
}

// Load reads a table file, picking the format from its extension.
func Load(path string, minWeight float64) (cog.RowSet, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "table %s not found", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	rs, err := Decode(data, f, minWeight)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "%s", path)
	}
	return rs, nil
}

// LoadAll reads several tables and concatenates their rows in order.
func LoadAll(paths []string, minWeight float64) (cog.RowSet, error) {
	var all cog.RowSet
	for _, p := range paths {
		rs, err := Load(p, minWeight)
		if err != nil {
			return nil, err
		}
		all = append(all, rs...)
	}
	return all, nil
}

// Save writes rs to path in the format given by its extension.
func Save(path string, rs cog.RowSet) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(rs, f)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ParseRowFlag parses "component:weight:arm". The component may itself
// contain colons; weight and arm are taken from the last two fields and may
// be left empty to mark them missing.
func ParseRowFlag(s string) (cog.Row, error) {
	j := strings.LastIndex(s, ":")
	if j < 0 {
		return cog.Row{}, errs.New(errs.ErrCodeInvalidFormat, "row %q: want component:weight:arm", s)
	}
	i := strings.LastIndex(s[:j], ":")
	if i < 0 {
		return cog.Row{}, errs.New(errs.ErrCodeInvalidFormat, "row %q: want component:weight:arm", s)
	}
	row, err := rowFromStrings(s[:i], s[i+1:j], s[j+1:])
	if err != nil {
		return cog.Row{}, errs.Wrap(errs.GetCode(err), err, "row %q", s)
	}
	return row, nil
}
