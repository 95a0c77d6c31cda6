package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
)

// Outcome is the computed state of a table.
type Outcome struct {
	Status      string       `json:"status"` // "ok" or "incomplete"
	Message     string       `json:"message,omitempty"`
	Result      *cog.Result  `json:"result,omitempty"`
	Metrics     []cog.Metric `json:"metrics,omitempty"`
	Instruction string       `json:"instruction,omitempty"`
}

const (
	StatusOK         = "ok"
	StatusIncomplete = "incomplete"
	StatusInvalid    = "invalid"
)

// NewOutcome builds the outcome of a Calculate call. An INCOMPLETE_INPUT
// error becomes the incomplete status and any other error the invalid status;
// res is ignored in both cases.
func NewOutcome(res cog.Result, err error, precision int) Outcome {
	if errs.Is(err, errs.ErrCodeIncompleteInput) {
		return Outcome{Status: StatusIncomplete, Message: errs.UserMessage(err)}
	}
	if err != nil {
		return Outcome{Status: StatusInvalid, Message: errs.UserMessage(err)}
	}
	return Outcome{
		Status:      StatusOK,
		Result:      &res,
		Metrics:     res.Metrics(precision),
		Instruction: res.Instruction(precision),
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before touching the response, so an encoding failure
// can still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		enc.Encode(errorBody{Error: errorDetail{
			Code:    string(errs.ErrCodeInternal),
			Message: "failed to encode response",
		}})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), errorBody{Error: errorDetail{Code: string(code), Message: errs.UserMessage(err)}})
}

func statusFor(err error) int {
	switch code := errs.GetCode(err); {
	case code == errs.ErrCodeSessionNotFound || code == errs.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errs.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errs.IsValidation(err):
		return http.StatusUnprocessableEntity
	case code == errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

var contentTypes = map[string]string{
	"svg":  "image/svg+xml",
	"png":  "image/png",
	"pdf":  "application/pdf",
	"json": "application/json",
	"dot":  "text/vnd.graphviz; charset=utf-8",
	"md":   "text/markdown; charset=utf-8",
	"html": "text/html; charset=utf-8",
}
