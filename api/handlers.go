package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"lingotutor/tools"
	"lingotutor/transcript"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ToolCallResponse struct {
	CallID string `json:"call_id"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	File      string `json:"file"`
}

type ItemRequest struct {
	Role    string   `json:"role"`
	Content []string `json:"content"`
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Schemas())
}

func (s *Server) executeTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	callID := uuid.NewString()

	args := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, ToolCallResponse{CallID: callID, Error: "invalid request body: " + err.Error()})
		return
	}
	defer r.Body.Close()

	output, err := s.registry.Execute(r.Context(), name, args)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, tools.ErrToolNotFound):
			status = http.StatusNotFound
		case errors.Is(err, tools.ErrInvalidArguments):
			status = http.StatusBadRequest
		}
		s.logger.Error("tool call failed",
			zap.String("tool", name),
			zap.String("call_id", callID),
			zap.Int("status", status),
			zap.Error(err))
		writeJSON(w, status, ToolCallResponse{CallID: callID, Error: err.Error()})
		return
	}

	s.logger.Info("tool_call",
		zap.String("tool", name),
		zap.String("call_id", callID),
		zap.Int("output_chars", len(output)))
	writeJSON(w, http.StatusOK, ToolCallResponse{CallID: callID, Output: output})
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	id, file, err := s.sessions.Open()
	if err != nil {
		s.logger.Error("failed to open session", zap.Error(err))
		http.Error(w, "failed to open session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, SessionResponse{SessionID: id, File: file})
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Role) == "" {
		http.Error(w, "missing role parameter", http.StatusBadRequest)
		return
	}

	err := s.sessions.Add(r.Context(), r.PathValue("id"), transcript.Item{Role: req.Role, Content: req.Content})
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, transcript.ErrClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	}
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	err := s.sessions.Close(r.PathValue("id"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error("failed to close session", zap.String("session_id", r.PathValue("id")), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
