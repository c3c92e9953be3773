package tui

import "github.com/pixil98/go-lobby/internal/display"

type ViewerOpt func(*Viewer)

// WithEventTemplate replaces the template used to render event lines.
func WithEventTemplate(t *display.EventTemplate) ViewerOpt {
	return func(v *Viewer) {
		v.tmpl = t
	}
}
