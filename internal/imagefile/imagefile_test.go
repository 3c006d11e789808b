package imagefile

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var jpegHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestValidate_AcceptsRealImages(t *testing.T) {
	cases := []struct {
		name    string
		content []byte
	}{
		{"photo.jpg", jpegHeader},
		{"photo.jpeg", jpegHeader},
		{"shot.png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}},
		{"anim.gif", []byte("GIF89a trailing data")},
		{"pic.webp", append([]byte("RIFF\x10\x00\x00\x00WEBP"), []byte("VP8 ")...)},
	}
	for _, tc := range cases {
		path := writeFile(t, tc.name, tc.content)
		if err := Validate(path); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", tc.name, err)
		}
	}
}

func TestValidate_RejectsMissingFile(t *testing.T) {
	err := Validate(filepath.Join(t.TempDir(), "nope.jpg"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("Validate = %v, want not-found error", err)
	}
}

func TestValidate_RejectsUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "document.pdf", jpegHeader)
	err := Validate(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported file extension") {
		t.Fatalf("Validate = %v, want extension error", err)
	}
}

func TestValidate_RejectsMismatchedContent(t *testing.T) {
	path := writeFile(t, "fake.jpg", []byte("this is plain text, not an image"))
	err := Validate(path)
	if err == nil || !strings.Contains(err.Error(), "does not match") {
		t.Fatalf("Validate = %v, want content mismatch error", err)
	}
}

func TestValidate_RejectsEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.png", nil)
	err := Validate(path)
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("Validate = %v, want empty-file error", err)
	}
}

func TestReadBase64_RoundTrips(t *testing.T) {
	content := append(bytes.Clone(jpegHeader), []byte("pixels")...)
	path := writeFile(t, "photo.jpg", content)

	encoded, err := ReadBase64(path)
	if err != nil {
		t.Fatalf("ReadBase64: %v", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, content) {
		t.Fatal("decoded content does not match original")
	}
}

func TestAutoResolution_Thresholds(t *testing.T) {
	cases := []struct {
		size int
		want string
	}{
		{10, "low"},
		{99_999, "low"},
		{100_000, "medium"},
		{499_999, "medium"},
		{500_000, "high"},
	}
	for _, tc := range cases {
		content := append(bytes.Clone(jpegHeader), make([]byte, tc.size-len(jpegHeader))...)
		path := writeFile(t, "photo.jpg", content)
		got, err := AutoResolution(path)
		if err != nil {
			t.Fatalf("AutoResolution(%d bytes): %v", tc.size, err)
		}
		if got != tc.want {
			t.Errorf("AutoResolution(%d bytes) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestFindImages_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.png", "notes.txt", "c.JPEG"} {
		if err := os.WriteFile(filepath.Join(dir, name), jpegHeader, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.jpg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	images, err := FindImages(dir)
	if err != nil {
		t.Fatalf("FindImages: %v", err)
	}
	want := []string{"a.png", "b.jpg", "c.JPEG"}
	if len(images) != len(want) {
		t.Fatalf("images = %v, want %v", images, want)
	}
	for i, path := range images {
		if filepath.Base(path) != want[i] {
			t.Errorf("images[%d] = %s, want %s", i, filepath.Base(path), want[i])
		}
	}
}

func TestFindImages_RejectsNonDirectory(t *testing.T) {
	if _, err := FindImages(filepath.Join(t.TempDir(), "nope")); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("missing dir err = %v", err)
	}
	file := writeFile(t, "photo.jpg", jpegHeader)
	if _, err := FindImages(file); err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Fatalf("file-as-dir err = %v", err)
	}
}

func TestValidResolution(t *testing.T) {
	for _, ok := range []string{"low", "Medium", " HIGH "} {
		got, err := ValidResolution(ok)
		if err != nil {
			t.Errorf("ValidResolution(%q) = %v, want nil", ok, err)
		}
		if got != strings.ToLower(strings.TrimSpace(ok)) {
			t.Errorf("ValidResolution(%q) = %q, not normalized", ok, got)
		}
	}
	if _, err := ValidResolution("ultra"); err == nil {
		t.Fatal("ValidResolution(ultra) = nil, want error")
	}
}
