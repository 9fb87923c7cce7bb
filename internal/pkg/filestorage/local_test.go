package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// newFileHeader builds a real multipart.FileHeader by parsing a generated form
func newFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestSaveAndDeleteFile(t *testing.T) {
	root := t.TempDir()
	storage, err := NewLocalStorage(root, "http://localhost:8080/uploads/")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	fh := newFileHeader(t, "Intro.MP4", "video/mp4", []byte("video-bytes"))
	rel, err := storage.SaveFileWithPath(fh, LessonVideosPath)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(rel, LessonVideosPath+"/") || !strings.HasSuffix(rel, ".mp4") {
		t.Fatalf("unexpected relative path %q", rel)
	}

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil || string(data) != "video-bytes" {
		t.Fatalf("stored content: %q, %v", data, err)
	}

	if got := storage.URL(rel); got != "http://localhost:8080/uploads/"+rel {
		t.Fatalf("url: got %q", got)
	}

	if err := storage.DeleteFile(rel); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); !os.IsNotExist(err) {
		t.Fatalf("file still present: %v", err)
	}
	if err := storage.DeleteFile(rel); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestDeleteFileStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "uploads")
	storage, err := NewLocalStorage(root, "/uploads")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	outside := filepath.Join(parent, "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := storage.DeleteFile("../keep.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside root was touched: %v", err)
	}
}

func TestHasAllowedExtension(t *testing.T) {
	allowed := []string{"mp4", "mov", "avi", "mkv"}
	cases := map[string]bool{
		"lecture.mp4":  true,
		"lecture.MKV":  true,
		"a.b.mov":      true,
		"virus.exe":    false,
		"clip.MP4x":    false,
		"noextension":  false,
		"trailingdot.": false,
	}
	for name, want := range cases {
		if got := HasAllowedExtension(name, allowed); got != want {
			t.Errorf("%s: got %v want %v", name, got, want)
		}
	}
}

func TestIsImage(t *testing.T) {
	if !IsImage(newFileHeader(t, "a.png", "image/png", []byte("png"))) {
		t.Fatal("png should be an image")
	}
	if IsImage(newFileHeader(t, "a.txt", "text/plain", []byte("txt"))) {
		t.Fatal("text is not an image")
	}
	if IsImage(nil) {
		t.Fatal("nil header is not an image")
	}
}
