package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type entry struct {
	name    string
	content string
	dir     bool
}

func createZip(t *testing.T, entries []entry) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for _, e := range entries {
		if e.dir {
			h := &zip.FileHeader{Name: e.name}
			h.SetMode(os.ModeDir | 0755)
			if _, err := w.CreateHeader(h); err != nil {
				t.Fatalf("Failed to create directory %s: %v", e.name, err)
			}
			continue
		}
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return zipPath
}

func isHTML(name string) bool {
	return strings.HasSuffix(name, ".html")
}

func TestWalk(t *testing.T) {
	zipPath := createZip(t, []entry{
		{name: "site/", dir: true},
		{name: "site/page10.html", content: "<p>10</p>"},
		{name: "site/page2.html", content: "<p>2</p>"},
		{name: "site/style.css", content: "p {}"},
		{name: "index.html", content: "<p>index</p>"},
	})

	tests := []struct {
		name  string
		match func(string) bool
		want  []string
	}{
		{"html only in natural order", isHTML, []string{"index.html", "site/page2.html", "site/page10.html"}},
		{"nil match visits all files", nil, []string{"index.html", "site/page2.html", "site/page10.html", "site/style.css"}},
		{"nothing matches", func(string) bool { return false }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var visited []string
			err := Walk(zipPath, tt.match, func(archive string, file *zip.File) error {
				if archive != zipPath {
					t.Errorf("archive = %s, want %s", archive, zipPath)
				}
				visited = append(visited, file.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if strings.Join(visited, ",") != strings.Join(tt.want, ",") {
				t.Errorf("visited %v, want %v", visited, tt.want)
			}
		})
	}
}

func TestWalk_FileContent(t *testing.T) {
	zipPath := createZip(t, []entry{{name: "a.html", content: "<h1>Hi</h1>"}})

	err := Walk(zipPath, isHTML, func(_ string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		if string(data) != "<h1>Hi</h1>" {
			t.Errorf("content = %q", data)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := createZip(t, []entry{
		{name: "1.html"}, {name: "2.html"}, {name: "3.html"},
	})

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, isHTML, func(string, *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})
	if !errors.Is(err, stopErr) {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2", visited)
	}
}

func TestWalk_UnsafeEntries(t *testing.T) {
	for _, name := range []string{"../evil.html", "site/../../evil.html", "/abs.html"} {
		t.Run(name, func(t *testing.T) {
			zipPath := createZip(t, []entry{{name: "ok.html"}, {name: name}})
			var visited int
			err := Walk(zipPath, nil, func(string, *zip.File) error {
				visited++
				return nil
			})
			if err == nil || !strings.Contains(err.Error(), "unsafe path") {
				t.Errorf("Walk() error = %v, want unsafe path", err)
			}
			if visited != 0 {
				t.Errorf("visited %d files before rejecting archive", visited)
			}
		})
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	noop := func(string, *zip.File) error { return nil }

	if err := Walk("/nonexistent/file.zip", nil, noop); err == nil {
		t.Error("Expected error for nonexistent file")
	}

	invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
	if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
		t.Fatalf("Failed to create invalid zip: %v", err)
	}
	if err := Walk(invalidZip, nil, noop); err == nil {
		t.Error("Expected error for invalid zip file")
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"index.html", true},
		{"a/b/c.html", true},
		{"a/..b/c.html", true},
		{"../x.html", false},
		{`a\..\x.html`, false},
		{"/x.html", false},
		{`\x.html`, false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
