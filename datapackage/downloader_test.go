package datapackage

import (
	"io"
	"testing"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name     string
		body     []byte
		encoding string
		expected string
	}{
		{"utf8 passthrough", []byte("Town\nNorwalk\n"), "", "Town\nNorwalk\n"},
		{"bom stripped", append([]byte{0xEF, 0xBB, 0xBF}, "Town\n"...), "", "Town\n"},
		{"latin1 fallback", []byte("Caf\xe9"), "", "Café"},
		{"declared windows-1252", []byte("\x93Town\x94"), "windows-1252", "“Town”"},
		{"declared utf-8", []byte("Town"), "utf-8", "Town"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := decodeText(tt.body, tt.encoding)
			if err != nil {
				t.Fatalf("decodeText failed: %v", err)
			}
			got, _ := io.ReadAll(reader)
			if string(got) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}

	if _, err := decodeText([]byte("x"), "klingon"); err == nil {
		t.Error("expected an error for an unknown encoding")
	}
}
