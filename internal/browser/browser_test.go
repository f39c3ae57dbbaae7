package browser

import "testing"

func TestOpenRejectsNonHTTP(t *testing.T) {
	var opened []string
	launch = func(name string, args ...string) error {
		opened = append(opened, args[len(args)-1])
		return nil
	}

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://reddit.com/r/forhire/comments/abc", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"https://", true},
		{"", true},
	}

	for _, tt := range tests {
		err := Open(tt.url)
		if tt.wantErr && err == nil {
			t.Errorf("Open(%q): expected error, got nil", tt.url)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("Open(%q): unexpected error %v", tt.url, err)
		}
	}
	if len(opened) != 2 {
		t.Fatalf("expected 2 launches, got %v", opened)
	}
}
