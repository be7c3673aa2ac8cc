// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jeranaias/companion/internal/model"
	"github.com/jeranaias/companion/internal/orchestrator"
)

// TranscriptResponse is the body of GET /api/transcript and POST /api/messages.
type TranscriptResponse struct {
	Session  string          `json:"session"`
	Messages []model.Message `json:"messages"`
	// Reply is the assistant message appended by POST /api/messages. It is
	// absent when the input was blank.
	Reply *model.Message `json:"reply,omitempty"`
}

// MessageRequest is the body of POST /api/messages.
type MessageRequest struct {
	Content string `json:"content"`
}

// TextResponse is the body of POST /api/summary and POST /api/fact.
type TextResponse struct {
	Text  string `json:"text"`
	Error bool   `json:"error"`
}

func (s *Server) handleAPITranscript(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	var msgs []model.Message
	e.Do(func(sess *orchestrator.Session) {
		msgs = sess.Transcript()
	})
	writeJSON(w, http.StatusOK, TranscriptResponse{Session: e.ID, Messages: nonNil(msgs)})
}

func (s *Server) handleAPIReset(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	e.Do(func(sess *orchestrator.Session) {
		sess.Reset()
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", "invalid_request_error")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request_error")
		return
	}
	if len(req.Content) > MaxMessageLength {
		writeError(w, http.StatusRequestEntityTooLarge, "content too long", "invalid_request_error")
		return
	}

	e := s.entry(w, r)
	resp := TranscriptResponse{Session: e.ID}
	e.Do(func(sess *orchestrator.Session) {
		before := sess.Len()
		sess.Submit(modelContext(r), req.Content)
		resp.Messages = sess.Transcript()
		if len(resp.Messages) > before {
			last := resp.Messages[len(resp.Messages)-1]
			resp.Reply = &last
		}
	})
	resp.Messages = nonNil(resp.Messages)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	var text string
	e.Do(func(sess *orchestrator.Session) {
		text = sess.Summarize(modelContext(r))
	})
	writeJSON(w, http.StatusOK, textResponse(text))
}

func (s *Server) handleAPIFact(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	var text string
	e.Do(func(sess *orchestrator.Session) {
		text = sess.RandomFact(modelContext(r))
	})
	writeJSON(w, http.StatusOK, textResponse(text))
}

func textResponse(text string) TextResponse {
	return TextResponse{Text: text, Error: model.NewAssistantMessage(text).IsError()}
}

func nonNil(msgs []model.Message) []model.Message {
	if msgs == nil {
		return []model.Message{}
	}
	return msgs
}
