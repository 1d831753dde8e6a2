package errors

import (
	"strings"
	"testing"
)

func TestValidateAppLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "blog", false},
		{"valid with underscore", "user_profiles", false},
		{"valid leading underscore", "_private", false},
		{"valid with digits", "app2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"uppercase", "Blog", true},
		{"with dash", "my-app", true},
		{"with dot", "my.app", true},
		{"starts with digit", "2app", true},
		{"path traversal ..", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAppLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAppLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidApp) {
				t.Errorf("ValidateAppLabel(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateModelName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid camel case", "BlogPost", false},
		{"valid simple", "Author", false},
		{"valid lowercase", "author", false},
		{"valid with digits", "OAuth2Token", false},
		{"valid with underscore", "Legacy_Table", false},

		{"empty", "", true},
		{"too long", strings.Repeat("A", 300), true},
		{"starts with digit", "2Model", true},
		{"starts with underscore", "_Model", true},
		{"with dot", "app.Model", true},
		{"with dash", "my-model", true},
		{"spaces", "My Model", true},
		{"null byte", "Foo\x00Bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModelName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModelName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidModel) {
				t.Errorf("ValidateModelName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestModelKeyParts(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantApp   string
		wantModel string
		wantErr   bool
	}{
		{"valid", "blog.Post", "blog", "Post", false},
		{"valid underscores", "user_profiles.ProfileImage", "user_profiles", "ProfileImage", false},

		{"no separator", "blogPost", "", "", true},
		{"empty app", ".Post", "", "", true},
		{"empty model", "blog.", "", "", true},
		{"extra separator", "blog.Post.Extra", "", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, model, err := ModelKeyParts(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ModelKeyParts(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if app != tt.wantApp || model != tt.wantModel {
				t.Errorf("ModelKeyParts(%q) = (%q, %q), want (%q, %q)", tt.input, app, model, tt.wantApp, tt.wantModel)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/path", false},
		{"http", "http://example.com/path", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
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
		{"valid simple", "schema.json", false},
		{"valid nested", "out/diagrams/schema.svg", false},
		{"valid with dots", "v1.2.3/schema.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidApp,
		ErrCodeInvalidModel,
		ErrCodeInvalidFormat,
		ErrCodeInvalidSchema,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeSchemaNotFound,
		ErrCodeModelNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeRateLimited,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
