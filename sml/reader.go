package sml

import (
	"bytes"
	"io"
)

var (
	escapeSeq  = []byte{escapeChar, escapeChar, escapeChar, escapeChar}
	versionSeq = []byte{version1Char, version1Char, version1Char, version1Char}
	startSeq   = append(append([]byte{}, escapeSeq...), versionSeq...)
)

// Files larger than this are considered garbage and resynchronised past
const maxFileLen = 1 << 16

type Reader interface {
	// ReadFile returns the next complete SML file, from the start escape
	// sequence up to and including the trailer.
	ReadFile() ([]byte, error)
}

type reader struct {
	r   io.Reader
	buf []byte
}

func NewReader(r io.Reader) Reader {
	return &reader{
		r: r,
	}
}

func (r *reader) ReadFile() ([]byte, error) {
	buf := make([]byte, 4096)
	for {
		if fr := r.tryFile(); fr != nil {
			return fr, nil
		}
		n, err := r.r.Read(buf)
		r.buf = append(r.buf, buf[0:n]...)
		if err != nil {
			if fr := r.tryFile(); fr != nil {
				return fr, nil
			}
			return nil, err
		}
	}
}

func (r *reader) tryFile() []byte {
	// Forward to the next start sequence,
	// useful in case we start reading in the middle of a file
	start := bytes.Index(r.buf, startSeq)
	if start < 0 {
		if keep := len(startSeq) - 1; len(r.buf) > keep {
			r.buf = r.buf[len(r.buf)-keep:]
		}
		return nil
	}
	r.buf = r.buf[start:]

	// Escape sequences are aligned to 4 bytes relative to the file start
	for pos := len(startSeq); pos+trailerLen <= len(r.buf); pos += 4 {
		if !bytes.Equal(r.buf[pos:pos+4], escapeSeq) {
			continue
		}
		next := r.buf[pos+4 : pos+8]
		switch {
		case next[0] == endOfFileChar:
			fr := make([]byte, pos+trailerLen)
			copy(fr, r.buf)
			r.buf = r.buf[pos+trailerLen:]
			return fr
		case bytes.Equal(next, escapeSeq):
			// Escaped escape sequence inside the payload
			pos += 4
		case bytes.Equal(next, versionSeq):
			// A new file starts before the current one ended
			r.buf = r.buf[pos:]
			return r.tryFile()
		}
	}

	if len(r.buf) > maxFileLen {
		r.buf = r.buf[len(escapeSeq):]
		return r.tryFile()
	}
	return nil
}
