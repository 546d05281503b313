package keyfile

import (
	"errors"
	"testing"
)

func TestKeep(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected bool
	}{
		{
			name:     "plain card line",
			input:    []byte("NODE 1 2 3\n"),
			expected: true,
		},
		{
			name:     "comment line",
			input:    []byte("$comment\n"),
			expected: false,
		},
		{
			name:     "bare sentinel",
			input:    []byte("$"),
			expected: false,
		},
		{
			name:     "sentinel only with terminator",
			input:    []byte("$\n"),
			expected: false,
		},
		{
			name:     "blank line is kept",
			input:    []byte("\n"),
			expected: true,
		},
		{
			name:     "crlf line",
			input:    []byte("*KEYWORD\r\n"),
			expected: true,
		},
		{
			name:     "crlf comment",
			input:    []byte("$ LS-DYNA keyword deck\r\n"),
			expected: false,
		},
		{
			name:     "sentinel not at start is kept",
			input:    []byte(" $offset comment\n"),
			expected: true,
		},
		{
			name:     "empty line is dropped",
			input:    []byte{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Keep(tt.input)
			if err != nil {
				t.Fatalf("Keep(%q) returned error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("Keep(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestKeep_NilLine(t *testing.T) {
	_, err := Keep(nil)
	if err == nil {
		t.Fatal("expected error for nil line")
	}
	if !errors.Is(err, ErrNilLine) {
		t.Errorf("expected ErrNilLine, got %v", err)
	}
}
