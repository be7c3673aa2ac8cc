// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/jeranaias/companion/internal/gemini"
	"github.com/jeranaias/companion/internal/model"
	"github.com/jeranaias/companion/internal/usage"
)

const (
	// SummaryInstruction precedes the joined transcript in a summary request.
	SummaryInstruction = "Summarize this conversation briefly:"

	// FactPrompt is sent verbatim by RandomFact.
	FactPrompt = "Tell me a fun, interesting fact!"

	// DefaultThinkingFrames is the number of indicator frames shown by Submit.
	DefaultThinkingFrames = 3

	// DefaultThinkingInterval is the delay between indicator frames.
	DefaultThinkingInterval = 500 * time.Millisecond
)

// Generator sends a single prompt to the model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*gemini.Reply, error)
}

// Options configures a Session. The zero value is usable.
type Options struct {
	// Model is recorded in the usage ledger. Defaults to gemini.DefaultModel.
	Model string

	// Recorder receives one entry per model request. Defaults to usage.Nop.
	Recorder usage.Recorder

	Logger logr.Logger

	// Indicator, when set, is called with each "working" frame before Submit
	// sends its request ("🤖 Thinking.", "🤖 Thinking..", ...).
	Indicator        func(frame string)
	ThinkingFrames   int
	ThinkingInterval time.Duration
}

// Session is one conversation with the model.
type Session struct {
	gen        Generator
	transcript *model.Transcript
	opts       Options
	log        logr.Logger
}

// New creates a session with an empty transcript.
func New(gen Generator, opts Options) *Session {
	if opts.Model == "" {
		opts.Model = gemini.DefaultModel
	}
	if opts.Recorder == nil {
		opts.Recorder = usage.Nop{}
	}
	if opts.ThinkingFrames <= 0 {
		opts.ThinkingFrames = DefaultThinkingFrames
	}
	if opts.ThinkingInterval <= 0 {
		opts.ThinkingInterval = DefaultThinkingInterval
	}
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Session{
		gen:        gen,
		transcript: model.NewTranscript(),
		opts:       opts,
		log:        log.WithName("orchestrator"),
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Submit sends utterance to the model and appends both the user message and
// the reply to the transcript. Blank input is ignored.
func (s *Session) Submit(ctx context.Context, utterance string) {
	if strings.TrimSpace(utterance) == "" {
		return
	}

	s.transcript.Append(model.NewUserMessage(utterance))
	s.indicate(ctx)
	reply := s.request(ctx, usage.OpChat, utterance)
	s.transcript.Append(model.NewAssistantMessage(reply))
}

// Summarize asks the model to summarize the whole transcript.
func (s *Session) Summarize(ctx context.Context) string {
	prompt := SummaryPrompt(s.transcript.Contents())
	return s.request(ctx, usage.OpSummary, prompt)
}

// RandomFact asks the model for a fun fact.
func (s *Session) RandomFact(ctx context.Context) string {
	return s.request(ctx, usage.OpFact, FactPrompt)
}

// Reset clears the transcript.
func (s *Session) Reset() {
	s.transcript.Clear()
}

// Request sends prompt as-is and returns the reply text or an error sentinel.
// The transcript is not touched.
func (s *Session) Request(ctx context.Context, prompt string) string {
	return s.request(ctx, usage.OpAsk, prompt)
}

// Transcript returns a copy of the messages exchanged so far.
func (s *Session) Transcript() []model.Message {
	return s.transcript.Messages()
}

// Len returns the number of messages in the transcript.
func (s *Session) Len() int {
	return s.transcript.Len()
}

// SummaryPrompt builds the summary request for the given message contents.
func SummaryPrompt(contents []string) string {
	return SummaryInstruction + "\n" + strings.Join(contents, "\n")
}

// ErrorText renders err as the text that stands in for a failed reply.
func ErrorText(err error) string {
	return model.ErrorPrefix + err.Error()
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Session) request(ctx context.Context, op usage.Op, prompt string) string {
	log := s.log.WithValues("op", string(op), "promptLen", len(prompt))
	log.V(1).Info("model request started")

	start := time.Now()
	reply, err := s.gen.Generate(ctx, prompt)
	elapsed := time.Since(start)

	entry := usage.Entry{
		At:       start,
		Op:       op,
		Model:    s.opts.Model,
		Duration: elapsed,
		OK:       err == nil,
	}
	if err == nil && reply != nil {
		if reply.Model != "" {
			entry.Model = reply.Model
		}
		entry.PromptTokens = reply.Usage.PromptTokenCount
		entry.ResponseTokens = reply.Usage.CandidatesTokenCount
	}
	if recErr := s.opts.Recorder.Record(ctx, entry); recErr != nil {
		log.Error(recErr, "failed to record usage")
	}

	if err != nil {
		log.Error(err, "model request failed", "duration", elapsed)
		return ErrorText(err)
	}
	if reply == nil {
		return ""
	}

	log.V(1).Info("model request finished", "duration", elapsed, "replyLen", len(reply.Text))
	return reply.Text
}

// indicate plays the thinking frames. It returns early if ctx is done.
func (s *Session) indicate(ctx context.Context) {
	if s.opts.Indicator == nil {
		return
	}
	for i := 1; i <= s.opts.ThinkingFrames; i++ {
		s.opts.Indicator(ThinkingFrame(i))
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.opts.ThinkingInterval):
		}
	}
}

// ThinkingFrame returns the n-th frame of the working indicator.
func ThinkingFrame(n int) string {
	if n < 1 {
		n = 1
	}
	return "🤖 Thinking" + strings.Repeat(".", n)
}
