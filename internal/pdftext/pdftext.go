// Package pdftext pulls literal text out of PDF content streams.
//
// It is a scraper, not a parser: every stream ... endstream section is
// inflated when it is zlib data, and the contents of each parenthesised
// string literal in it are concatenated. Text drawn through hex strings,
// custom encodings, or object streams is not recovered.
package pdftext

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	streamPattern  = regexp.MustCompile(`(?s)stream\r?\n(.*?)endstream`)
	literalPattern = regexp.MustCompile(`\(([^)]*)\)`)
)

// Extract returns the concatenated string literals of every content stream
// in data.
func Extract(data []byte) string {
	var sb strings.Builder
	for _, m := range streamPattern.FindAllSubmatch(data, -1) {
		stream := trimEOL(m[1])
		if inflated, err := inflate(stream); err == nil {
			stream = inflated
		}
		for _, lit := range literalPattern.FindAllSubmatch(stream, -1) {
			sb.WriteString(decode(lit[1]))
		}
	}
	return sb.String()
}

// ReadFile reads the PDF at path and extracts its text.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	return Extract(data), nil
}

// trimEOL drops leading line breaks and the single end-of-line marker that
// precedes endstream. Only one trailing marker is removed so that binary
// stream data ending in CR or LF survives.
func trimEOL(b []byte) []byte {
	b = bytes.TrimLeft(b, "\r\n")
	switch {
	case bytes.HasSuffix(b, []byte("\r\n")):
		return b[:len(b)-2]
	case bytes.HasSuffix(b, []byte("\n")), bytes.HasSuffix(b, []byte("\r")):
		return b[:len(b)-1]
	}
	return b
}

func inflate(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// decode treats b as UTF-8 when valid and as Latin-1 otherwise.
func decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
