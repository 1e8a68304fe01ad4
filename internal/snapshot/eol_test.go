package snapshot

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualIgnoreEOL(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{name: "identical", a: "a\nb\n", b: "a\nb\n", want: true},
		{name: "crlf vs lf", a: "a\r\nb\r\n", b: "a\nb\n", want: true},
		{name: "cr vs lf", a: "a\rb\r", b: "a\nb\n", want: true},
		{name: "crlf vs cr", a: "a\r\nb", b: "a\rb", want: true},
		{name: "missing final terminator", a: "a", b: "a\n", want: true},
		{name: "cr then crlf", a: "a\r\r\n", b: "a\n\n", want: true},
		{name: "both empty", a: "", b: "", want: true},
		{name: "empty vs blank line", a: "", b: "\n", want: false},
		{name: "extra blank line", a: "a\n\n", b: "a\n", want: false},
		{name: "different byte", a: "abc\n", b: "abd\n", want: false},
		{name: "trailing space", a: "a\n", b: "a \n", want: false},
		{name: "prefix", a: "a\nb\n", b: "a\n", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := equalIgnoreEOL(strings.NewReader(tt.a), strings.NewReader(tt.b))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			got, err = equalIgnoreEOL(strings.NewReader(tt.b), strings.NewReader(tt.a))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "comparison must be symmetric")
		})
	}
}

func TestEqualIgnoreEOL_LargerThanBuffer(t *testing.T) {
	a := strings.Repeat("line of text\r\n", 20000)
	b := strings.Repeat("line of text\n", 20000)

	got, err := equalIgnoreEOL(strings.NewReader(a), strings.NewReader(b))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = equalIgnoreEOL(strings.NewReader(a), strings.NewReader(b+"x"))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestEqualIgnoreEOL_ReadError(t *testing.T) {
	boom := errors.New("boom")

	_, err := equalIgnoreEOL(iotest.ErrReader(boom), strings.NewReader("a\n"))
	assert.ErrorIs(t, err, boom)

	_, err = equalIgnoreEOL(strings.NewReader("a\n"), iotest.ErrReader(boom))
	assert.ErrorIs(t, err, boom)
}

func TestEOLReader(t *testing.T) {
	r := newEOLReader(strings.NewReader("a\r\nb\rc"))

	var got []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			break
		}
		got = append(got, b)
	}

	assert.Equal(t, "a\nb\nc\n", string(got))
}
