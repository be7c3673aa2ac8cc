// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"html"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// CodeStyle is the chroma style used for highlighted code in HTML.
const CodeStyle = "github"

var htmlFormatter = chromahtml.New(
	chromahtml.WithClasses(false),
	chromahtml.TabWidth(4),
)

// segment is a run of plain text or a fenced code block.
type segment struct {
	code     bool
	language string
	text     string
}

// splitFences splits text on ``` fences. An unclosed fence runs to the end.
func splitFences(text string) []segment {
	var (
		segments []segment
		plain    []string
		code     []string
		language string
		inCode   bool
	)
	flushPlain := func() {
		if len(plain) > 0 {
			segments = append(segments, segment{text: strings.Join(plain, "\n")})
			plain = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inCode {
				segments = append(segments, segment{code: true, language: language, text: strings.Join(code, "\n")})
				code, language, inCode = nil, "", false
			} else {
				flushPlain()
				language = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
				inCode = true
			}
			continue
		}
		if inCode {
			code = append(code, line)
		} else {
			plain = append(plain, line)
		}
	}

	if inCode {
		segments = append(segments, segment{code: true, language: language, text: strings.Join(code, "\n")})
	}
	flushPlain()
	return segments
}

// HTML renders a message for the web page: fenced code blocks are
// syntax-highlighted, everything else is escaped.
func HTML(content string) template.HTML {
	var b strings.Builder
	for _, seg := range splitFences(content) {
		if !seg.code {
			b.WriteString(html.EscapeString(seg.text))
			continue
		}
		b.WriteString(highlightHTML(seg.text, seg.language))
	}
	// All plain text was escaped above and chroma escapes token values.
	return template.HTML(b.String())
}

// highlightHTML highlights code using chroma's HTML formatter with inline
// styles. It falls back to an escaped <pre> block.
func highlightHTML(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(CodeStyle)
	if style == nil {
		style = chromaStyles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainPre(code)
	}

	var buf strings.Builder
	if err := htmlFormatter.Format(&buf, style, iterator); err != nil {
		return plainPre(code)
	}
	return buf.String()
}

func plainPre(code string) string {
	return "<pre><code>" + html.EscapeString(code) + "</code></pre>"
}
