package imagefile

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxSizeBytes caps image uploads at 50MB.
const MaxSizeBytes = 50 * 1024 * 1024

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

var magicNumbers = [][]byte{
	{0xff, 0xd8, 0xff},                       // JPEG
	{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, // PNG
	[]byte("GIF87a"),
	[]byte("GIF89a"),
}

// Resolution thresholds for auto-selection, by file size.
const (
	lowResThreshold    = 100_000
	mediumResThreshold = 500_000
)

// Validate checks that path points at a real image the server will
// accept: a regular file with a supported extension, under the size
// cap, whose leading bytes match a known image signature.
func Validate(path string) error {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve image path: %w", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image not found: %s", path)
		}
		return fmt.Errorf("stat image: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path is not a regular file: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(resolved))
	if !supportedExtensions[ext] {
		return fmt.Errorf("unsupported file extension %q (allowed: %s)", ext, allowedExtensions())
	}
	if info.Size() > MaxSizeBytes {
		return fmt.Errorf("image file is too large (%.1fMB); maximum allowed size is %dMB",
			float64(info.Size())/1024/1024, MaxSizeBytes/1024/1024)
	}

	f, err := os.Open(resolved)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	header := make([]byte, 12)
	n, _ := f.Read(header)
	header = header[:n]
	if len(header) == 0 {
		return fmt.Errorf("file is empty")
	}
	if !validHeader(header) {
		return fmt.Errorf("file content does not match any supported image format")
	}
	return nil
}

func validHeader(header []byte) bool {
	for _, magic := range magicNumbers {
		if bytes.HasPrefix(header, magic) {
			return true
		}
	}
	// WEBP is RIFF<4-byte size>WEBP.
	return len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WEBP"))
}

// ReadBase64 validates the image and returns its base64-encoded
// content, ready for an upload payload.
func ReadBase64(path string) (string, error) {
	if err := Validate(path); err != nil {
		return "", err
	}
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve image path: %w", err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// AutoResolution picks an upload resolution from the file size:
// under 100KB low, under 500KB medium, otherwise high.
func AutoResolution(path string) (string, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve image path: %w", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("image not found: %s", path)
		}
		return "", fmt.Errorf("stat image: %w", err)
	}
	switch {
	case info.Size() < lowResThreshold:
		return "low", nil
	case info.Size() < mediumResThreshold:
		return "medium", nil
	default:
		return "high", nil
	}
}

// FindImages lists the image files directly inside dir (no recursion),
// matched by extension, in sorted order. Content validation is left to
// Validate so a bad file surfaces per-file, not as a scan failure.
func FindImages(dir string) ([]string, error) {
	resolved, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %s", dir)
		}
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			images = append(images, filepath.Join(resolved, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

// ValidResolution normalizes and checks a user-supplied resolution.
func ValidResolution(resolution string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(resolution))
	switch normalized {
	case "low", "medium", "high":
		return normalized, nil
	}
	return "", fmt.Errorf("invalid resolution %q; must be one of: high, low, medium", resolution)
}

func allowedExtensions() string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
