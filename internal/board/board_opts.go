package board

import "github.com/pixil98/go-lobby/internal/display"

type BoardOpt func(*Board)

// WithEventTemplate replaces the template used to render event lines.
func WithEventTemplate(t *display.EventTemplate) BoardOpt {
	return func(b *Board) {
		b.tmpl = t
	}
}

// WithBanner replaces the greeting shown when a viewer connects.
func WithBanner(banner string) BoardOpt {
	return func(b *Board) {
		b.banner = banner
	}
}
