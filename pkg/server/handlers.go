package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cogbalance/pkg/buildinfo"
	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
	"github.com/matzehuels/cogbalance/pkg/report"
	"github.com/matzehuels/cogbalance/pkg/rows"
	"github.com/matzehuels/cogbalance/pkg/session"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type computeRequest struct {
	Rows         cog.RowSet `json:"rows"`
	Scale        float64    `json:"scale,omitempty"`
	CameraFactor float64    `json:"camera_factor,omitempty"`
}

type sessionResponse struct {
	ID        string     `json:"id"`
	Rows      cog.RowSet `json:"rows"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	Outcome   Outcome    `json:"outcome"`
}

type rowsResponse struct {
	ID      string     `json:"id"`
	Rows    cog.RowSet `json:"rows"`
	Outcome Outcome    `json:"outcome"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Rows.Validate(s.sessions.MinWeight()); err != nil {
		writeError(w, err)
		return
	}

	opts := s.pipelineOptions()
	if req.Scale != 0 {
		opts.Scale = req.Scale
	}
	if req.CameraFactor != 0 {
		opts.CameraFactor = req.CameraFactor
	}
	writeJSON(w, http.StatusOK, s.outcome(r, req.Rows, opts.Scale, opts.CameraFactor))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var seed cog.RowSet
	if r.ContentLength != 0 {
		data, err := s.readBody(w, r)
		if err != nil {
			writeError(w, err)
			return
		}
		if len(data) > 0 {
			seed, err = rows.Decode(data, bodyFormat(r), s.sessions.MinWeight())
			if err != nil {
				writeError(w, err)
				return
			}
		}
	}

	sess, err := s.sessions.Create(r.Context(), seed)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, s.describe(r, sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.describe(r, sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReplaceRows(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	table, err := rows.Decode(data, bodyFormat(r), s.sessions.MinWeight())
	if err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	updated, err := s.sessions.ReplaceRows(r.Context(), id, table)
	s.writeRows(w, r, id, updated, err)
}

func (s *Server) handleAppendRow(w http.ResponseWriter, r *http.Request) {
	var row cog.Row
	if err := s.decodeJSON(w, r, &row); err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	updated, err := s.sessions.AppendRow(r.Context(), id, row)
	if err == nil {
		w.Header().Set("Location", "/api/v1/sessions/"+id+"/rows/"+strconv.Itoa(len(updated)-1))
	}
	s.writeRows(w, r, id, updated, err)
}

func (s *Server) handleUpdateRow(w http.ResponseWriter, r *http.Request) {
	i, err := rowIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var row cog.Row
	if err := s.decodeJSON(w, r, &row); err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	updated, err := s.sessions.UpdateRow(r.Context(), id, i, row)
	s.writeRows(w, r, id, updated, err)
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	i, err := rowIndex(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	updated, err := s.sessions.DeleteRow(r.Context(), id, i)
	s.writeRows(w, r, id, updated, err)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	table, err := s.sessions.Rows(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.outcome(r, table, s.opts.Scale, s.opts.CameraFactor))
}

func (s *Server) handleRender(vizType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := s.sessions.Rows(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}

		format := chi.URLParam(r, "format")
		opts := s.pipelineOptions()
		opts.VizType = vizType
		opts.Formats = []string{format}
		opts.Metrics = r.URL.Query().Get("metrics") != "false"
		opts.Title = r.URL.Query().Get("title")

		res, err := s.runner.Execute(r.Context(), table, opts)
		if err != nil {
			if errs.GetCode(err) == "" {
				err = errs.Wrap(errs.ErrCodeUnsupported, err, "render %s %s", vizType, format)
			}
			writeError(w, err)
			return
		}
		writeBytes(w, contentTypes[format], res.Artifacts[format])
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	table, err := s.sessions.Rows(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	opts := s.pipelineOptions()
	res := s.runner.Compute(r.Context(), table, opts)
	ropts := report.Options{
		Title:     r.URL.Query().Get("title"),
		Precision: s.opts.Precision,
		Unit:      s.opts.Unit,
		Table:     r.URL.Query().Get("table") != "false",
	}

	switch format := chi.URLParam(r, "format"); format {
	case "md":
		writeBytes(w, contentTypes[format], report.Markdown(res, ropts))
	case "html":
		page, err := report.HTML(res, ropts)
		if err != nil {
			writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "render report"))
			return
		}
		writeBytes(w, contentTypes[format], page)
	default:
		writeError(w, errs.New(errs.ErrCodeInvalidFormat, "invalid report format %q (must be md or html)", format))
	}
}

// outcome recomputes the result for table.
func (s *Server) outcome(r *http.Request, table cog.RowSet, scale, cameraFactor float64) Outcome {
	opts := s.pipelineOptions()
	opts.Scale, opts.CameraFactor = scale, cameraFactor

	res, err := s.runner.Calculate(r.Context(), table, opts)
	return NewOutcome(res, err, s.opts.Precision)
}

func (s *Server) describe(r *http.Request, sess *session.Session) sessionResponse {
	return sessionResponse{
		ID:        sess.ID,
		Rows:      sess.Rows,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
		ExpiresAt: sess.ExpiresAt,
		Outcome:   s.outcome(r, sess.Rows, s.opts.Scale, s.opts.CameraFactor),
	}
}

func (s *Server) writeRows(w http.ResponseWriter, r *http.Request, id string, table cog.RowSet, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsResponse{
		ID:      id,
		Rows:    table,
		Outcome: s.outcome(r, table, s.opts.Scale, s.opts.CameraFactor),
	})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "request body over %d bytes", s.opts.MaxBodyBytes)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	data, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "invalid JSON body")
	}
	return nil
}

// bodyFormat picks the table format from the Content-Type header.
func bodyFormat(r *http.Request) rows.Format {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "text/csv":
		return rows.CSV
	case "application/yaml", "application/x-yaml", "text/yaml":
		return rows.YAML
	case "application/toml":
		return rows.TOML
	case "application/hjson":
		return rows.HJSON
	default:
		return rows.JSON
	}
}

func rowIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidIndex, "row index %q is not a number", raw)
	}
	return i, nil
}
