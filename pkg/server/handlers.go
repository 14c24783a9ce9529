package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"

	"github.com/matzehuels/pfannkuchen/pkg/buildinfo"
	pkgerrors "github.com/matzehuels/pfannkuchen/pkg/errors"
	"github.com/matzehuels/pfannkuchen/pkg/pipeline"
	"github.com/matzehuels/pfannkuchen/pkg/render"
	"github.com/matzehuels/pfannkuchen/pkg/runs"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 1 << 16

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleComputeGet(w http.ResponseWriter, r *http.Request) {
	params := queryParams(r, "chunks", "workers", "refresh")
	params["n"] = chi.URLParam(r, "n")

	var opts pipeline.Options
	if err := decodeParams(params, &opts); err != nil {
		writeError(w, err)
		return
	}
	s.compute(w, r, opts)
}

func (s *Server) handleComputePost(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		writeError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "malformed JSON body: %v", err))
		return
	}
	if _, ok := body["n"]; !ok {
		writeError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "field \"n\" is required"))
		return
	}

	var opts pipeline.Options
	if err := decodeParams(body, &opts); err != nil {
		writeError(w, err)
		return
	}
	s.compute(w, r, opts)
}

func (s *Server) compute(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	opts.Logger = s.Logger
	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	var q struct {
		Limit int `mapstructure:"limit"`
	}
	if err := decodeParams(queryParams(r, "limit"), &q); err != nil {
		writeError(w, err)
		return
	}
	if q.Limit < 0 {
		writeError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "limit cannot be negative"))
		return
	}

	list, err := s.store().List(r.Context(), q.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*runs.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": list})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.store().Get(r.Context(), id)
	if errors.Is(err, runs.ErrNotFound) {
		writeError(w, pkgerrors.New(pkgerrors.ErrCodeRunNotFound, "run %q not found", id))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	params := queryParams(r, "format", "refresh")
	params["n"] = chi.URLParam(r, "n")
	params["index"] = chi.URLParam(r, "index")

	var opts pipeline.TraceOptions
	if err := decodeParams(params, &opts); err != nil {
		writeError(w, err)
		return
	}

	data, hit, err := s.Runner.Trace(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(opts.Format))
	w.Header().Set("X-Cache", cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Parameter decoding
// =============================================================================

// queryParams collects the named query parameters that are present.
func queryParams(r *http.Request, names ...string) map[string]any {
	q := r.URL.Query()
	params := make(map[string]any, len(names)+1)
	for _, name := range names {
		if q.Has(name) {
			params[name] = q.Get(name)
		}
	}
	return params
}

// decodeParams decodes loosely typed parameters into out. Strings are
// converted to the field types; unknown keys are rejected.
func decodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       jsonNumberHook,
		Result:           out,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "build decoder")
	}
	if err := dec.Decode(params); err != nil {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "invalid parameters: %v", err)
	}
	return nil
}

// jsonNumberHook turns json.Number into int64 so integer fields reject
// fractional values instead of truncating them.
func jsonNumberHook(from, to reflect.Type, data any) (any, error) {
	n, ok := data.(json.Number)
	if !ok {
		return data, nil
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	return nil, fmt.Errorf("expected an integer, got %s", n)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    pkgerrors.Code `json:"code"`
	Message string         `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := pkgerrors.GetCode(err)
	msg := pkgerrors.UserMessage(err)
	if code == "" {
		code = pkgerrors.ErrCodeInternal
		msg = "internal error"
	}
	writeJSON(w, pkgerrors.HTTPStatus(err), errorBody{Code: code, Message: msg})
}

func errNotFound(r *http.Request) error {
	return pkgerrors.New(pkgerrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}
