package rows

import (
	"bytes"
	"encoding/csv"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
)

type csvRecord struct {
	Component string `csv:"component"`
	Weight    string `csv:"weight"`
	Arm       string `csv:"arm"`
}

type csvExportRecord struct {
	Component string `csv:"Component"`
	Weight    string `csv:"Weight"`
	Arm       string `csv:"Arm"`
	Moment    string `csv:"Moment"`
}

var requiredColumns = []string{"component", "weight", "arm"}

// headerReader lowercases the header row so "Weight" and "weight" both bind.
type headerReader struct {
	*csv.Reader
	seen bool
	err  error
}

func (h *headerReader) Read() ([]string, error) {
	rec, err := h.Reader.Read()
	if err != nil || h.seen {
		return rec, err
	}
	h.seen = true
	for i := range rec {
		rec[i] = strings.ToLower(strings.TrimSpace(rec[i]))
	}
	for _, col := range requiredColumns {
		if !slices.Contains(rec, col) {
			h.err = errs.New(errs.ErrCodeInvalidFormat, "csv header is missing the %q column", col)
			return nil, h.err
		}
	}
	return rec, nil
}

func (h *headerReader) ReadAll() ([][]string, error) {
	var out [][]string
	for {
		rec, err := h.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

func decodeCSV(data []byte) (cog.RowSet, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	hr := &headerReader{Reader: r}

	var records []csvRecord
	if err := gocsv.UnmarshalCSV(hr, &records); err != nil {
		if hr.err != nil {
			return nil, hr.err
		}
		if err == gocsv.ErrEmptyCSVFile {
			return cog.RowSet{}, nil
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse csv")
	}

	rs := make(cog.RowSet, 0, len(records))
	for i, rec := range records {
		row, err := rowFromStrings(rec.Component, rec.Weight, rec.Arm)
		if err != nil {
			return nil, errs.Wrap(errs.GetCode(err), err, "row %d", i+1)
		}
		rs = append(rs, row)
	}
	return rs, nil
}

func encodeCSV(rs cog.RowSet) ([]byte, error) {
	records := make([]csvExportRecord, len(rs))
	for i, r := range rs {
		rec := csvExportRecord{
			Component: r.Component,
			Weight:    formatCell(r.Weight),
			Arm:       formatCell(r.Arm),
		}
		if m, ok := r.Moment(); ok {
			rec.Moment = strconv.FormatFloat(m, 'f', -1, 64)
		}
		records[i] = rec
	}
	return gocsv.MarshalBytes(&records)
}

// rowFromStrings converts text cells to a row. Blank cells are missing values.
func rowFromStrings(component, weight, arm string) (cog.Row, error) {
	w, err := parseCell(weight)
	if err != nil {
		return cog.Row{}, errs.Wrap(errs.ErrCodeInvalidWeight, err, "weight %q is not a number", weight)
	}
	a, err := parseCell(arm)
	if err != nil {
		return cog.Row{}, errs.Wrap(errs.ErrCodeInvalidArm, err, "arm %q is not a number", arm)
	}
	return cog.Row{Component: strings.TrimSpace(component), Weight: w, Arm: a}, nil
}

func parseCell(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return cog.Value(v), nil
}

func formatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
