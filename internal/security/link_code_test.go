package security

import (
	"strings"
	"testing"
)

func TestNewLinkCode(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewLinkCode()
		if err != nil {
			t.Fatalf("NewLinkCode() returned error: %v", err)
		}
		if len(code) != LinkCodeLength {
			t.Fatalf("NewLinkCode() len = %d, want %d", len(code), LinkCodeLength)
		}
		for _, char := range code {
			if !strings.ContainsRune(linkCodeAlphabet, char) {
				t.Fatalf("NewLinkCode() produced char %q outside alphabet", char)
			}
		}
		seen[code] = true
	}

	if len(seen) < 2 {
		t.Fatalf("NewLinkCode() produced %d distinct codes over 50 draws", len(seen))
	}
}

func TestRandomString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		length   int
		alphabet string
		wantErr  bool
	}{
		{
			name:     "negative length",
			length:   -1,
			alphabet: "abc",
			wantErr:  true,
		},
		{
			name:     "empty alphabet",
			length:   1,
			alphabet: "",
			wantErr:  true,
		},
		{
			name:     "zero length",
			length:   0,
			alphabet: "abc",
			wantErr:  false,
		},
		{
			name:     "single alphabet character",
			length:   8,
			alphabet: "X",
			wantErr:  false,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := RandomString(test.length, test.alphabet)
			if test.wantErr {
				if err == nil {
					t.Fatalf("RandomString(%d, %q) expected error, got nil", test.length, test.alphabet)
				}
				return
			}

			if err != nil {
				t.Fatalf("RandomString(%d, %q) returned error: %v", test.length, test.alphabet, err)
			}
			if len(got) != test.length {
				t.Fatalf("RandomString(%d, %q) len = %d, want %d", test.length, test.alphabet, len(got), test.length)
			}
			for _, char := range got {
				if !strings.ContainsRune(test.alphabet, char) {
					t.Fatalf("RandomString(%d, %q) produced char %q outside alphabet", test.length, test.alphabet, char)
				}
			}
		})
	}
}
