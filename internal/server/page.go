// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/jeranaias/companion/internal/model"
	"github.com/jeranaias/companion/internal/orchestrator"
	"github.com/jeranaias/companion/internal/ui/render"
)

// Notice kinds shown above the transcript.
const (
	NoticeSummary = "summary"
	NoticeFact    = "fact"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// ============================================================================
// VIEW MODEL
// ============================================================================

type pageData struct {
	Title       string
	Suggestions []suggestionView
	Messages    []messageView
	Notice      *noticeView
}

type suggestionView struct {
	Index int
	Text  string
}

type messageView struct {
	User  bool
	Error bool
	Text  string
	Body  template.HTML
}

type noticeView struct {
	Kind string
	Body template.HTML
}

func newPageData(settings *pageSettings, msgs []model.Message) pageData {
	data := pageData{Title: settings.Title}
	for i, text := range settings.Suggestions {
		data.Suggestions = append(data.Suggestions, suggestionView{Index: i, Text: text})
	}
	for _, msg := range msgs {
		view := messageView{
			User:  msg.Role == model.RoleUser,
			Error: msg.IsError(),
			Text:  msg.Content,
		}
		if !view.User {
			view.Body = render.HTML(msg.Content)
		}
		data.Messages = append(data.Messages, view)
	}
	return data
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)

	var msgs []model.Message
	e.Do(func(sess *orchestrator.Session) {
		msgs = sess.Transcript()
	})

	data := newPageData(s.currentPage(), msgs)
	if n, ok := e.TakeNotice(); ok {
		data.Notice = &noticeView{Kind: n.Kind, Body: render.HTML(n.Text)}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.log.Error(err, "failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	message := r.PostFormValue("message")
	if len(message) > MaxMessageLength {
		http.Error(w, "message too long", http.StatusRequestEntityTooLarge)
		return
	}

	e := s.entry(w, r)
	e.Do(func(sess *orchestrator.Session) {
		sess.Submit(modelContext(r), message)
	})
	redirectHome(w, r)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	suggestions := s.currentPage().Suggestions
	index, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("index")))
	if err != nil || index < 0 || index >= len(suggestions) {
		http.Error(w, "invalid suggestion index", http.StatusBadRequest)
		return
	}

	e := s.entry(w, r)
	e.Do(func(sess *orchestrator.Session) {
		sess.Submit(modelContext(r), suggestions[index])
	})
	redirectHome(w, r)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	e.Do(func(sess *orchestrator.Session) {
		sess.Reset()
	})
	e.TakeNotice()
	redirectHome(w, r)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	var text string
	e.Do(func(sess *orchestrator.Session) {
		text = sess.Summarize(modelContext(r))
	})
	e.SetNotice(NoticeSummary, text)
	redirectHome(w, r)
}

func (s *Server) handleFact(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	var text string
	e.Do(func(sess *orchestrator.Session) {
		text = sess.RandomFact(modelContext(r))
	})
	e.SetNotice(NoticeFact, text)
	redirectHome(w, r)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
