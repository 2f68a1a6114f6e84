// Package format identifies the document formats semtag reads and writes.
package format

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document, read through the extractor.
	PDF
	// JSON indicates a content tree in its JSON form.
	JSON
	// HTML indicates tagged HTML output.
	HTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case JSON:
		return "JSON"
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case JSON:
		return ".json"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case PDF:
		return "application/pdf"
	case JSON:
		return "application/json"
	case HTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// IsInput reports whether semtag can check documents of this format.
func (f Format) IsInput() bool {
	return f == PDF || f == JSON
}

// IsOutput reports whether semtag can write checked trees in this format.
func (f Format) IsOutput() bool {
	return f == JSON || f == HTML
}

// Parse returns the format with the given name, case-insensitively.
func Parse(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pdf":
		return PDF
	case "json":
		return JSON
	case "html", "htm":
		return HTML
	default:
		return Unknown
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return Unknown
	}
	return Parse(ext)
}

// DetectFromMagic checks leading bytes to determine format.
// Returns Unknown if the format cannot be determined from them.
func DetectFromMagic(data []byte) Format {
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	// UTF-8 byte order mark
	trimmed = bytes.TrimPrefix(trimmed, []byte{0xEF, 0xBB, 0xBF})
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return JSON
	}

	if detectHTMLMagic(trimmed) {
		return HTML
	}

	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	upper := strings.ToUpper(string(data[:min(len(data), 512)]))
	return strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML")
}

// DetectFromReader inspects the first bytes of r to determine format.
func DetectFromReader(r io.ReaderAt) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}
