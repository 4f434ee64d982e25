package roomcode

import (
	"testing"
)

func TestGenerate(t *testing.T) {
	code, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(code) != Length {
		t.Errorf("Generate() length = %d, want %d", len(code), Length)
	}

	if !IsValid(code) {
		t.Errorf("Generate() produced invalid code: %s", code)
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	// Not a guarantee of the generator, but 100 collisions in a 36^6 space
	// would mean the randomness is broken.
	codes := make(map[string]bool)
	count := 100

	for i := 0; i < count; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		if codes[code] {
			t.Errorf("Generate() produced duplicate code: %s", code)
		}
		codes[code] = true
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase", input: "ab12cd", want: "AB12CD"},
		{name: "mixed case", input: "Ab12Cd", want: "AB12CD"},
		{name: "already normalized", input: "AB12CD", want: "AB12CD"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "generated shape", code: "AB12CD", want: true},
		{name: "all digits", code: "123456", want: true},
		{name: "too short", code: "AB12C", want: false},
		{name: "too long", code: "AB12CD3", want: false},
		{name: "lowercase", code: "ab12cd", want: false},
		{name: "symbol", code: "AB12C!", want: false},
		{name: "empty", code: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.code); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
