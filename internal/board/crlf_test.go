package board

import (
	"bytes"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestLineEndings_Read(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   string
	}{
		"crlf": {
			input: "hello\r\nworld\r\n",
			exp:   "hello\nworld\n",
		},
		"bare cr": {
			input: "hello\rworld\r",
			exp:   "hello\nworld\n",
		},
		"mixed": {
			input: "a\r\nb\rc\n",
			exp:   "a\nb\nc\n",
		},
		"no endings": {
			input: "hello",
			exp:   "hello",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rw := newLineEndings(bytes.NewBufferString(tt.input))
			p := make([]byte, 64)
			n, err := rw.Read(p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "data", string(p[:n]), tt.exp)
		})
	}
}

func TestLineEndings_Write(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   string
	}{
		"expands newlines": {
			input: "hello\nworld\n",
			exp:   "hello\r\nworld\r\n",
		},
		"passes through without newlines": {
			input: "hello",
			exp:   "hello",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			rw := newLineEndings(&buf)

			n, err := rw.Write([]byte(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "written", buf.String(), tt.exp)
			testutil.AssertEqual(t, "reported length", n, len(tt.input))
		})
	}
}
