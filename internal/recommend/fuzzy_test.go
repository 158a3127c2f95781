package recommend

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 100},
		{"python", "python", 100},
		{"python", "", 0},
		{"python", "pyhton", 83},
		{"kitten", "sitting", 62},
		{"fluent pyhton", "fluent python", 92},
		{"abc", "xyz", 0},
		{"برمجة", "برمجه", 80},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); got != tt.expected {
				t.Errorf("Ratio(%q, %q) = %d, expected %d", tt.a, tt.b, got, tt.expected)
			}
			if got := Ratio(tt.b, tt.a); got != tt.expected {
				t.Errorf("Ratio(%q, %q) = %d, expected %d", tt.b, tt.a, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxLen   int
		expected string
	}{
		{name: "shorter than limit", in: "hello", maxLen: 10, expected: "hello"},
		{name: "exactly the limit", in: "hello", maxLen: 5, expected: "hello"},
		{name: "longer than limit", in: "hello world", maxLen: 5, expected: "hello..."},
		{name: "counts runes", in: "héllo wörld", maxLen: 4, expected: "héll..."},
		{name: "no limit", in: "hello", maxLen: 0, expected: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.maxLen); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, expected %q", tt.in, tt.maxLen, got, tt.expected)
			}
		})
	}
}
