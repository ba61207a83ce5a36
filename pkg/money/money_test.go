package money

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{4500, "45.00"},
		{9000, "90.00"},
		{5, "0.05"},
		{0, "0.00"},
		{12345, "123.45"},
	}
	for _, tt := range tests {
		if got := Format(tt.minor); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.minor, got, tt.want)
		}
	}
}

func TestMultiply(t *testing.T) {
	if got := Multiply(4500, 2); got != 9000 {
		t.Errorf("Multiply(4500, 2) = %d, want 9000", got)
	}
}
