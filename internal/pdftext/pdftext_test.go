package pdftext

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samplePDF builds a minimal document whose content stream draws text.
func samplePDF(t *testing.T, content []byte, compress bool) []byte {
	t.Helper()

	if compress {
		content = deflate(t, content)
	}

	var doc bytes.Buffer
	doc.WriteString("%PDF-1.4\n1 0 obj\n<< /Length 44 >>\nstream\n")
	doc.Write(content)
	doc.WriteString("\nendstream\nendobj\n%%EOF\n")
	return doc.Bytes()
}

func deflate(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(b)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	content := []byte("BT /F1 24 Tf 72 712 Td (Hello ) Tj (World) Tj ET")

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "plain stream", data: samplePDF(t, content, false), want: "Hello World"},
		{name: "flate stream", data: samplePDF(t, content, true), want: "Hello World"},
		{name: "no streams", data: []byte("%PDF-1.4\n%%EOF"), want: ""},
		{name: "latin-1 bytes", data: samplePDF(t, []byte("(R\xf8r)"), false), want: "Rør"},
		{
			name: "crlf after stream keyword",
			data: []byte("stream\r\n(one)endstream\nstream\n(two)endstream"),
			want: "onetwo",
		},
		{
			name: "blank lines before endstream",
			data: []byte("stream\n(abc)\n\nendstream"),
			want: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.data))
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, samplePDF(t, []byte("(Hello World)"), true), 0o644))

	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello World")

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestTrimEOL(t *testing.T) {
	assert.Equal(t, []byte("abc"), trimEOL([]byte("\r\nabc\r\n")))
	assert.Equal(t, []byte("abc\n"), trimEOL([]byte("abc\n\n")), "only one trailing marker is removed")
	assert.Equal(t, []byte("abc"), trimEOL([]byte("abc\r")))
	assert.Equal(t, []byte("abc"), trimEOL([]byte("abc")))
}

func TestExtractCompressedStreamEndingInLineFeed(t *testing.T) {
	// The zlib checksum's last byte is data; only the EOL marker before
	// endstream may be dropped.
	var text string
	var compressed []byte
	for i := 0; i < 100000; i++ {
		candidate := fmt.Sprintf("Line %d", i)
		z := deflate(t, []byte("("+candidate+")"))
		if z[len(z)-1] == '\n' {
			text, compressed = candidate, z
			break
		}
	}
	require.NotNil(t, compressed, "no candidate compressed to a trailing line feed")

	data := append([]byte("stream\n"), compressed...)
	data = append(data, "\nendstream"...)
	assert.Equal(t, text, Extract(data))
}
