//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package server exposes the service operations over HTTP. Every
// operation is a POST to /v1/{operation} carrying the JSON request and
// answering with the JSON result.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-flowmodel-go/analyzer"
	"trpc.group/trpc-go/trpc-flowmodel-go/catalog"
	"trpc.group/trpc-go/trpc-flowmodel-go/datamapper"
	"trpc.group/trpc-go/trpc-flowmodel-go/flow/node"
	"trpc.group/trpc-go/trpc-flowmodel-go/log"
	"trpc.group/trpc-go/trpc-flowmodel-go/service"
)

// HeaderRequestID carries the request id on requests and responses.
const HeaderRequestID = "X-Request-Id"

// maxBodyBytes bounds request payloads.
const maxBodyBytes = 8 << 20

// Server routes HTTP requests to a service.
type Server struct {
	svc     *service.Service
	router  *mux.Router
	origins []string
}

// Option configures the Server.
type Option func(*Server)

// WithAllowedOrigins restricts CORS to origins. The default allows any.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = append(s.origins, origins...) }
}

// New creates a server over svc.
func New(svc *service.Service, opts ...Option) *Server {
	s := &Server{svc: svc, router: mux.NewRouter()}
	for _, opt := range opts {
		opt(s)
	}
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Content-Length", "Content-Type", HeaderRequestID},
	})
	s.router.Use(c.Handler)
	s.router.Use(requestID)
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/operations", s.handleOperations).Methods(http.MethodGet)
	s.router.HandleFunc("/v1/{operation}", s.handleExecute).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/{operation}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodOptions)
}

// requestID assigns each request an id unless the client sent one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(HeaderRequestID, id)
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOperations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"operations": s.svc.Operations()})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	op := mux.Vars(r)["operation"]
	id := r.Header.Get(HeaderRequestID)
	log.InfofContext(r.Context(), "request %s: %s", id, op)

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	defer r.Body.Close()
	if err != nil {
		writeError(w, id, http.StatusBadRequest, err)
		return
	}
	out, err := s.svc.Execute(r.Context(), op, payload)
	if err != nil {
		log.WarnfContext(r.Context(), "request %s: %s failed: %v", id, op, err)
		writeError(w, id, statusOf(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

var notFound = []error{
	service.ErrUnknownOperation,
	analyzer.ErrFunctionNotFound,
	analyzer.ErrDocumentNotFound,
	datamapper.ErrDocumentNotFound,
	datamapper.ErrSymbolNotFound,
	catalog.ErrAgentModuleNotFound,
	catalog.ErrAgentNotFound,
	catalog.ErrUnknownAgent,
}

var badRequest = []error{
	service.ErrDecode,
	service.ErrMissingNode,
	node.ErrUnknownKind,
	catalog.ErrMissingFunctionName,
	catalog.ErrUnsupportedToolNode,
}

// statusOf maps an operation error to an HTTP status.
func statusOf(err error) int {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusUnprocessableEntity
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}

func writeError(w http.ResponseWriter, id string, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: id})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
