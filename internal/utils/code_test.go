package utils

import "testing"

func TestNewNumericCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := NewNumericCode()
		if err != nil {
			t.Fatalf("NewNumericCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		if code[0] == '0' {
			t.Fatalf("code %q has a leading zero", code)
		}
		for _, ch := range code {
			if ch < '0' || ch > '9' {
				t.Fatalf("code %q contains non-digit %q", code, ch)
			}
		}
	}
}
