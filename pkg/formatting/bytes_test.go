package formatting_test

import (
	"testing"

	"github.com/JaimeStill/leafscan/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"512", 512, false},
		{"10MB", 10 << 20, false},
		{"10 mb", 10 << 20, false},
		{"1.5KB", 1536, false},
		{" 2GB ", 2 << 30, false},
		{"", 0, true},
		{"MB", 0, true},
		{"10XB", 0, true},
		{"-1MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 1, "0 B"},
		{1023, 1, "1023 B"},
		{1024, 0, "1 KB"},
		{1536, 1, "1.5 KB"},
		{10 << 20, 0, "10 MB"},
	}
	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
			t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
		}
	}
}
