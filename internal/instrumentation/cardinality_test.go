package instrumentation

import "testing"

func TestCodeClass(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{204, "2xx"},
		{400, "4xx"},
		{413, "4xx"},
		{503, "5xx"},
		{0, "unknown"},
		{99, "unknown"},
		{600, "unknown"},
	}

	for _, tt := range tests {
		if result := CodeClass(tt.code); result != tt.expected {
			t.Errorf("CodeClass(%d) = %q, want %q", tt.code, result, tt.expected)
		}
	}
}

func TestStatusFromCode(t *testing.T) {
	if got := StatusFromCode(200); got != StatusSuccess {
		t.Errorf("StatusFromCode(200) = %q, want %q", got, StatusSuccess)
	}
	if got := StatusFromCode(299); got != StatusSuccess {
		t.Errorf("StatusFromCode(299) = %q, want %q", got, StatusSuccess)
	}
	for _, code := range []int{0, 199, 300, 401, 503} {
		if got := StatusFromCode(code); got != StatusError {
			t.Errorf("StatusFromCode(%d) = %q, want %q", code, got, StatusError)
		}
	}
}

func TestMaskFileID(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"1AbCdEfGhIj", "1AbC***"},
		{"abcde", "abcd***"},
		{"abcd", "***"},
		{"a", "***"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if result := MaskFileID(tt.id); result != tt.expected {
				t.Errorf("MaskFileID(%q) = %q, want %q", tt.id, result, tt.expected)
			}
		})
	}
}
