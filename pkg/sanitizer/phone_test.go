package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid E.164 format",
			input: "+639171234567",
			want:  "+639171234567",
		},
		{
			name:  "international with spaces",
			input: "+63 917 123 4567",
			want:  "+639171234567",
		},
		{
			name:  "local mobile with trunk prefix",
			input: "0917 123 4567",
			want:  "+639171234567",
		},
		{
			name:  "local with dashes",
			input: "0917-123-4567",
			want:  "+639171234567",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +639171234567  ",
			want:  "+639171234567",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "too short",
			input: "12345",
			want:  "",
		},
		{
			name:  "letters",
			input: "call me",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	once := NormalizePhone("0917 123 4567")
	if twice := NormalizePhone(once); twice != once {
		t.Errorf("expected idempotent result, got %q then %q", once, twice)
	}
}
