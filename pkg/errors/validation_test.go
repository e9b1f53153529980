package errors

import "testing"

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "gbuffer", false},
		{"with separators", "shadow.cascade_0-a", false},
		{"numeric start", "0ad", false},
		{"empty", "", true},
		{"control char", "pass\x01name", true},
		{"leading dot", ".hidden", true},
		{"space", "two words", true},
		{"slash", "a/b", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "frames/deferred.toml", false},
		{"absolute", "/tmp/frame.toml", false},
		{"empty", "", true},
		{"traversal", "../../etc/passwd", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, format := range []string{"dot", "svg", "png", "json", "SVG"} {
		if err := ValidateFormat(format); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", format, err)
		}
	}
	for _, format := range []string{"", "pdf", "webp"} {
		if err := ValidateFormat(format); err == nil {
			t.Errorf("ValidateFormat(%q) = nil, want error", format)
		}
		if format != "" && !Is(ValidateFormat(format), ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) should carry ErrCodeInvalidFormat", format)
		}
	}
}
