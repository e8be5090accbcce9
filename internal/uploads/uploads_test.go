package uploads

import (
	"os"
	"strings"
	"testing"
)

func TestIsAllowed(t *testing.T) {
	tests := []struct {
		filename string
		mimetype string
		want     bool
	}{
		{"photo.jpg", "image/jpeg", true},
		{"scan.PDF", "application/pdf", true},
		{"notes.txt", "text/plain", true},
		{"report.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"malware.exe", "application/x-msdownload", false},
		{"script.sh", "text/x-shellscript", false},
		{"archive.zip", "application/zip", false},
		{"evil.png", "application/x-executable", false},
	}
	for _, tt := range tests {
		if got := IsAllowed(tt.filename, tt.mimetype); got != tt.want {
			t.Errorf("IsAllowed(%q, %q) = %v, want %v", tt.filename, tt.mimetype, got, tt.want)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	content := "hello upload"

	desc, err := Save(strings.NewReader(content), "site photo.jpg", "image/jpeg", dir)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if desc.Filename != "site_photo.jpg" {
		t.Errorf("Filename = %q, want sanitized site_photo.jpg", desc.Filename)
	}
	if desc.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", desc.Size, len(content))
	}

	data, err := os.ReadFile(desc.Path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != content {
		t.Errorf("saved content = %q", data)
	}
}

func TestSaveRejectsDisallowedType(t *testing.T) {
	if _, err := Save(strings.NewReader("x"), "tool.exe", "application/octet-stream", t.TempDir()); err == nil {
		t.Error("Save accepted a .exe upload")
	}
}

func TestSaveRejectsTraversalNames(t *testing.T) {
	dir := t.TempDir()
	desc, err := Save(strings.NewReader("x"), "../../etc/passwd.txt", "text/plain", dir)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(desc.StoredName, "/") || strings.Contains(desc.StoredName, "..") {
		t.Errorf("stored name escapes directory: %q", desc.StoredName)
	}
	if !strings.HasPrefix(desc.Path, dir) {
		t.Errorf("saved outside dest dir: %q", desc.Path)
	}
}

func TestSaveRejectsEmptyName(t *testing.T) {
	if _, err := Save(strings.NewReader("x"), "...", "text/plain", t.TempDir()); err == nil {
		t.Error("Save accepted an empty sanitized name")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"../../evil.png", "evil.png"},
		{"we!rd#name.txt", "werdname.txt"},
		{"///", ""},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
