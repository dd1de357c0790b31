package util

import "testing"

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"10MB", 10 * 1024 * 1024},
		{"512KB", 512 * 1024},
		{"2GB", 2 * 1024 * 1024 * 1024},
		{"1024", 1024},
		{" 5mb ", 5 * 1024 * 1024},
		{"", 42},
		{"garbage", 42},
	}

	for _, tc := range cases {
		if got := ParseSize(tc.in, 42); got != tc.want {
			t.Errorf("ParseSize(%q): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("supersecret", 4); got != "supe***" {
		t.Errorf("expected 'supe***', got %q", got)
	}
	if got := MaskSecret("ab", 4); got != "***" {
		t.Errorf("expected short secret fully masked, got %q", got)
	}
}
