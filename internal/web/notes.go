package web

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	appLog "weekcal/internal/log"
)

// maxCachedNotes bounds the rendered-notes cache. A full cache is dropped
// and refilled by the next page loads.
const maxCachedNotes = 256

// newMarkdown returns the converter for task notes. Raw HTML in notes is
// not passed through.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
}

// renderNotes converts Markdown notes to HTML, caching by source text.
func (s *Server) renderNotes(src string) template.HTML {
	if src == "" {
		return ""
	}

	s.notesMu.RLock()
	cached, ok := s.notesCache[src]
	s.notesMu.RUnlock()
	if ok {
		return cached
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(src), &buf); err != nil {
		appLog.Error("notes markdown conversion failed", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	out := template.HTML(buf.String())

	s.notesMu.Lock()
	if len(s.notesCache) >= maxCachedNotes {
		clear(s.notesCache)
	}
	s.notesCache[src] = out
	s.notesMu.Unlock()
	return out
}
