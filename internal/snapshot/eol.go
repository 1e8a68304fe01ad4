package snapshot

import (
	"bufio"
	"errors"
	"io"
)

// eolReader yields the logical lines of r, each terminated by a single LF.
// CRLF, CR and LF are all line terminators. A missing terminator on the last
// line is supplied, so "a" and "a\n" read the same while "" and "\n" do not.
type eolReader struct {
	r       *bufio.Reader
	last    byte
	emitted bool
	done    bool
}

func newEOLReader(r io.Reader) *eolReader {
	return &eolReader{r: bufio.NewReaderSize(r, 64*1024)}
}

func (e *eolReader) ReadByte() (byte, error) {
	if e.done {
		return 0, io.EOF
	}

	b, err := e.r.ReadByte()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return 0, err
		}
		e.done = true
		if e.emitted && e.last != '\n' {
			return e.emit('\n'), nil
		}
		return 0, io.EOF
	}

	if b == '\r' {
		next, err := e.r.ReadByte()
		switch {
		case err == nil && next != '\n':
			if err := e.r.UnreadByte(); err != nil {
				return 0, err
			}
		case err != nil && !errors.Is(err, io.EOF):
			return 0, err
		}
		return e.emit('\n'), nil
	}

	return e.emit(b), nil
}

func (e *eolReader) emit(b byte) byte {
	e.last = b
	e.emitted = true
	return b
}

// equalIgnoreEOL streams a and b and reports whether their logical lines
// are identical.
func equalIgnoreEOL(a, b io.Reader) (bool, error) {
	ra, rb := newEOLReader(a), newEOLReader(b)

	for {
		ba, errA := ra.ReadByte()
		bb, errB := rb.ReadByte()

		if errA != nil && !errors.Is(errA, io.EOF) {
			return false, errA
		}
		if errB != nil && !errors.Is(errB, io.EOF) {
			return false, errB
		}

		endA, endB := errA != nil, errB != nil
		if endA || endB {
			return endA && endB, nil
		}

		if ba != bb {
			return false, nil
		}
	}
}
