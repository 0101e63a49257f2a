package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// WriteImage creates a PNG-looking file of the requested size at path,
// creating parent directories. A size smaller than the signature writes just
// the signature.
func WriteImage(t testing.TB, path string, size int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, max(size, len(pngSignature)))
	copy(buf, pngSignature)
	for i := len(pngSignature); i < len(buf); i++ {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
