package domain

import "testing"

func TestValidTokenShape(t *testing.T) {
	tests := []struct {
		name  string
		token string
		valid bool
	}{
		{"three segments", "aaa.bbb.ccc", true},
		{"real looking jwt", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig", true},
		{"empty segments still three", "..", true},
		{"empty", "", false},
		{"two segments", "aaa.bbb", false},
		{"four segments", "a.b.c.d", false},
		{"no dots", "opaque", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTokenShape(tt.token); got != tt.valid {
				t.Errorf("ValidTokenShape(%q) = %v, want %v", tt.token, got, tt.valid)
			}
		})
	}
}
