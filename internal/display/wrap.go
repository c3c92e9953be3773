package display

import (
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultWidth = 80

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}

// Capitalize uppercases the leading letter of each word in s and leaves the
// rest of the word alone, so "game room" becomes "Game Room" but "lobbyA"
// stays "LobbyA". A caser is built per call since they aren't safe for
// concurrent use.
func Capitalize(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}
