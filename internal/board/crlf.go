package board

import (
	"bytes"
	"io"
)

// lineEndings adapts an ssh channel to the board's \n-terminated lines:
// writes expand \n to \r\n for terminal clients, reads collapse \r\n and bare
// \r to \n so the input scanner sees clean lines from any client mode.
type lineEndings struct {
	rw io.ReadWriter
}

func newLineEndings(rw io.ReadWriter) io.ReadWriter {
	return &lineEndings{rw: rw}
}

func (c *lineEndings) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n > 0 {
		data := bytes.ReplaceAll(p[:n], []byte("\r\n"), []byte("\n"))
		data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
		n = copy(p, data)
	}
	return n, err
}

func (c *lineEndings) Write(p []byte) (int, error) {
	if !bytes.Contains(p, []byte{'\n'}) {
		return c.rw.Write(p)
	}
	_, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	// The caller's byte count, not the expanded one.
	return len(p), err
}
