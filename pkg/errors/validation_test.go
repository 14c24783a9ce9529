package errors

import (
	"testing"
)

func TestValidateSize(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"typical", 10, false},
		{"max", 12, false},

		{"negative", -1, true},
		{"overflow", 13, true},
		{"far out", 1000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSize(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeOutOfRange) {
				t.Errorf("ValidateSize(%d) code = %v, want %v", tt.input, GetCode(err), ErrCodeOutOfRange)
			}
		})
	}
}

func TestValidateChunksAndWorkers(t *testing.T) {
	if err := ValidateChunks(0); err != nil {
		t.Errorf("ValidateChunks(0) should accept default: %v", err)
	}
	if err := ValidateChunks(150); err != nil {
		t.Errorf("ValidateChunks(150) error: %v", err)
	}
	if err := ValidateChunks(-3); !Is(err, ErrCodeInvalidChunks) {
		t.Errorf("ValidateChunks(-3) = %v, want %v", err, ErrCodeInvalidChunks)
	}

	if err := ValidateWorkers(8); err != nil {
		t.Errorf("ValidateWorkers(8) error: %v", err)
	}
	for _, w := range []int{-1, 4096} {
		if err := ValidateWorkers(w); !Is(err, ErrCodeInvalidWorkers) {
			t.Errorf("ValidateWorkers(%d) = %v, want %v", w, err, ErrCodeInvalidWorkers)
		}
	}
}

func TestValidateIndex(t *testing.T) {
	tests := []struct {
		name     string
		n, idx   int
		wantCode Code
	}{
		{"first", 4, 0, ""},
		{"last", 4, 23, ""},
		{"n=1", 1, 0, ""},

		{"past end", 4, 24, ErrCodeInvalidIndex},
		{"negative", 4, -1, ErrCodeInvalidIndex},
		{"empty permutation", 0, 0, ErrCodeInvalidIndex},
		{"bad size", 13, 0, ErrCodeOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIndex(tt.n, tt.idx)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateIndex(%d, %d) code = %q, want %q", tt.n, tt.idx, got, tt.wantCode)
			}
		})
	}
}

func TestValidateBackendURL(t *testing.T) {
	redis := []string{"redis", "rediss"}
	mongo := []string{"mongodb", "mongodb+srv"}

	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"redis", "redis://localhost:6379/0", redis, false},
		{"redis tls", "rediss://user:pw@cache.internal:6380", redis, false},
		{"mongo", "mongodb://localhost:27017", mongo, false},
		{"mongo srv", "mongodb+srv://cluster0.example.net", mongo, false},

		{"empty", "", redis, true},
		{"wrong scheme", "http://localhost:6379", redis, true},
		{"mongo for redis", "mongodb://localhost", redis, true},
		{"no host", "redis://", redis, true},
		{"malformed", "redis://[::1", redis, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBackendURL(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBackendURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
