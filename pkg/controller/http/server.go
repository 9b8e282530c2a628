package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
	"github.com/secmon-lab/segmentor/pkg/usecase"
	"github.com/secmon-lab/segmentor/pkg/utils/async"
	"github.com/secmon-lab/segmentor/pkg/utils/errutil"
)

const maxRequestBody = 64 * 1024

// EditorUseCase is the subset of usecase.EditorUseCase served over HTTP
type EditorUseCase interface {
	Catalog() []model.SchemaField
	Open(ctx context.Context) (*model.EditorView, error)
	Get(ctx context.Context, id types.SessionID) (*model.EditorView, error)
	SetName(ctx context.Context, id types.SessionID, name string) (*model.EditorView, error)
	SelectSchema(ctx context.Context, id types.SessionID, value types.SchemaFieldID) (*model.EditorView, error)
	AddSchema(ctx context.Context, id types.SessionID) (*model.EditorView, bool, error)
	ChangeSchema(ctx context.Context, id types.SessionID, index int, value types.SchemaFieldID) (*model.EditorView, error)
	Validate(ctx context.Context, id types.SessionID) (*model.EditorView, error)
	Submit(ctx context.Context, id types.SessionID) (*usecase.SubmitResult, error)
	Close(ctx context.Context, id types.SessionID) (*model.EditorView, error)
}

type Server struct {
	router   *chi.Mux
	editorUC EditorUseCase
}

type Options func(*Server)

func New(editorUC EditorUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		editorUC: editorUC,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)

		r.Route("/editors", func(r chi.Router) {
			r.Post("/", s.handleOpen)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(sessionIDCtx)
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleClose)
				r.Put("/name", s.handleSetName)
				r.Put("/pending", s.handleSelectSchema)
				r.Post("/schemas", s.handleAddSchema)
				r.Put("/schemas/{index}", s.handleChangeSchema)
				r.Post("/submit", s.handleSubmit)
			})
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type nameRequest struct {
	Name string `json:"name"`
}

type schemaRequest struct {
	Value types.SchemaFieldID `json:"value"`
}

type addSchemaResponse struct {
	Added  bool              `json:"added"`
	Editor *model.EditorView `json:"editor"`
}

type submitResponse struct {
	*usecase.SubmitResult
	Error string `json:"error,omitempty"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, struct {
		Schemas []model.SchemaField `json:"schemas"`
	}{Schemas: s.editorUC.Catalog()})
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	view, err := s.editorUC.Open(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	view, err := s.editorUC.Get(r.Context(), sessionIDFrom(r.Context()))
	respond(w, r, view, err)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	view, err := s.editorUC.Close(r.Context(), sessionIDFrom(r.Context()))
	respond(w, r, view, err)
}

func (s *Server) handleSetName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := s.editorUC.SetName(r.Context(), sessionIDFrom(r.Context()), req.Name)
	respond(w, r, view, err)
}

func (s *Server) handleSelectSchema(w http.ResponseWriter, r *http.Request) {
	var req schemaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Value != "" {
		if err := req.Value.Validate(); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
	}
	view, err := s.editorUC.SelectSchema(r.Context(), sessionIDFrom(r.Context()), req.Value)
	respond(w, r, view, err)
}

func (s *Server) handleAddSchema(w http.ResponseWriter, r *http.Request) {
	view, added, err := s.editorUC.AddSchema(r.Context(), sessionIDFrom(r.Context()))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusOK, &addSchemaResponse{Added: added, Editor: view})
}

func (s *Server) handleChangeSchema(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid schema index"), http.StatusBadRequest)
		return
	}

	var req schemaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Value.Validate(); err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
		return
	}
	view, err := s.editorUC.ChangeSchema(r.Context(), sessionIDFrom(r.Context()), index, req.Value)
	respond(w, r, view, err)
}

// handleSubmit settles the editor before responding. With ?async=true the
// submission runs in the background and the caller polls the editor.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := sessionIDFrom(ctx)

	if r.URL.Query().Get("async") == "true" {
		view, err := s.editorUC.Validate(ctx, id)
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, statusOf(err))
			return
		}

		async.Dispatch(ctx, func(ctx context.Context) error {
			_, err := s.editorUC.Submit(ctx, id)
			return err
		})
		writeJSON(w, r, http.StatusAccepted, view)
		return
	}

	result, err := s.editorUC.Submit(ctx, id)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, statusOf(err))
		return
	}

	resp := &submitResponse{SubmitResult: result}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func respond(w http.ResponseWriter, r *http.Request, view *model.EditorView, err error) {
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

// statusOf maps domain and use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrEditorClosed),
		errors.Is(err, model.ErrSubmitInProgress),
		errors.Is(err, model.ErrStaleSubmission):
		return http.StatusConflict
	case errors.Is(err, model.ErrEmptySegmentName),
		errors.Is(err, model.ErrUnknownSchema),
		errors.Is(err, model.ErrSchemaAlreadySelected),
		errors.Is(err, model.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrSenderNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v); err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}
