package listener

import (
	"bytes"
	"io"
)

// crlfReadWriter converts line endings at the edge of a terminal connection:
// reads arrive with bare \n, writes leave with \r\n.
type crlfReadWriter struct {
	rw io.ReadWriter
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfReadWriter{rw: rw}
}

// Read normalizes \r\n and lone \r to \n. Telnet clients send \r\n, an ssh
// client with no pty sends \r.
func (c *crlfReadWriter) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	if n > 0 {
		data := bytes.ReplaceAll(p[:n], []byte("\r\n"), []byte("\n"))
		data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
		n = copy(p, data)
	}
	return n, err
}

// Write reports len(p) on success so callers never see the expanded size.
func (c *crlfReadWriter) Write(p []byte) (int, error) {
	converted := bytes.ReplaceAll(p, []byte("\r\n"), []byte("\n"))
	converted = bytes.ReplaceAll(converted, []byte("\n"), []byte("\r\n"))
	if _, err := c.rw.Write(converted); err != nil {
		return 0, err
	}
	return len(p), nil
}
