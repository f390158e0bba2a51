package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/callsurface/pkg/buildinfo"
	"github.com/matzehuels/callsurface/pkg/errors"
	"github.com/matzehuels/callsurface/pkg/pipeline"
	"github.com/matzehuels/callsurface/pkg/render/fsm"
	"github.com/matzehuels/callsurface/pkg/scenario"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	"dot":               "text/vnd.graphviz",
}

// layoutRequest is the body of POST /v1/layout.
type layoutRequest struct {
	pipeline.LayoutRequest
	Width       float64  `json:"width,omitempty"`
	BottomInset *float64 `json:"bottom_inset,omitempty"`
	Format      string   `json:"format,omitempty"`
	Labels      bool     `json:"labels,omitempty"`
}

type errorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Read()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": info.Version,
		"commit":  info.Commit,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout request"))
		return
	}

	opts := s.options()
	if req.Width != 0 {
		opts.Width = req.Width
	}
	if req.BottomInset != nil {
		opts.BottomInset = req.BottomInset
	}
	opts.Labels = req.Labels
	format := req.Format
	if format == "" {
		format = pipeline.FormatJSON
	}
	opts.Formats = []string{format}

	f, err := pipeline.Layout(req.LayoutRequest, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := pipeline.RenderFrame(f, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, artifacts[format])
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read scenario"))
		return
	}
	sc, err := scenario.Parse(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.options()
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	opts.Formats = []string{format}
	opts.Labels = queryBool(q.Get("labels"))
	opts.Refresh = queryBool(q.Get("refresh"))
	if q.Has("immediate") {
		opts.Immediate = queryBool(q.Get("immediate"))
	}
	if v := q.Get("frame"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "frame must be an integer, got %q", v))
			return
		}
		opts.Frame = &n
	}

	result, err := s.runner.Execute(r.Context(), sc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("X-Scenario-Hash", result.Hash)
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeArtifact(w, format, result.Artifacts[format])
}

func (s *Server) handleFSM(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	machines, err := selectMachines(q.Get("machine"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dot := fsm.ToDOT(machines, fsm.Options{Clustered: len(machines) > 1})

	switch format := q.Get("format"); format {
	case "", "dot":
		writeArtifact(w, "dot", []byte(dot))
	case pipeline.FormatSVG:
		svg, err := fsm.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeArtifact(w, format, svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg)", format))
	}
}

// selectMachines resolves a comma-separated machine list; empty means all.
func selectMachines(names string) ([]fsm.Machine, error) {
	if names == "" {
		return []fsm.Machine{fsm.Press(), fsm.Morph()}, nil
	}
	all := fsm.Machines()
	var out []fsm.Machine
	for _, name := range strings.Split(names, ",") {
		m, ok := all[strings.TrimSpace(name)]
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "unknown machine %q (must be press or morph)", name)
		}
		out = append(out, m)
	}
	return out, nil
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: RequestID(r.Context()),
	})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidState, errors.ErrCodeInvalidSpeaker,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidScenario, errors.ErrCodeInvalidWidth:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
