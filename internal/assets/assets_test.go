package assets_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"venuebook/internal/assets"
)

func writeImage(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestImportCopiesUnderSlug(t *testing.T) {
	srcDir := t.TempDir()
	lib := assets.New(filepath.Join(t.TempDir(), "venues"))
	source := filepath.Join(srcDir, "Photo.PNG")
	writeImage(t, source, "png-bytes")

	stored, err := lib.Import("Café Hall", source)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if want := filepath.Join(lib.Dir(), "cafe_hall.png"); stored != want {
		t.Fatalf("stored path = %q, want %q", stored, want)
	}
	got, err := os.ReadFile(stored)
	if err != nil || string(got) != "png-bytes" {
		t.Fatalf("unexpected stored content %q (%v)", got, err)
	}

	second, err := lib.Import("Cafe  Hall", source)
	if err != nil {
		t.Fatalf("Import second: %v", err)
	}
	if filepath.Base(second) != "cafe_hall_2.png" {
		t.Fatalf("expected suffixed name, got %q", second)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("source must be left in place: %v", err)
	}
}

func TestImportRejectsNonImages(t *testing.T) {
	lib := assets.New(t.TempDir())
	source := filepath.Join(t.TempDir(), "notes.txt")
	writeImage(t, source, "text")

	if _, err := lib.Import("Main Hall", source); !errors.Is(err, assets.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if _, err := lib.Import("Main Hall", filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestRemoveOnlyTouchesLibraryFiles(t *testing.T) {
	lib := assets.New(t.TempDir())
	source := filepath.Join(t.TempDir(), "hall.jpg")
	writeImage(t, source, "jpg")

	stored, err := lib.Import("Main Hall", source)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	removed, err := lib.Remove(stored)
	if err != nil || !removed {
		t.Fatalf("Remove stored = %v, %v", removed, err)
	}
	if _, err := os.Stat(stored); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected stored image to be deleted, got %v", err)
	}

	removed, err = lib.Remove(stored)
	if err != nil || removed {
		t.Fatalf("Remove missing = %v, %v", removed, err)
	}
	removed, err = lib.Remove(source)
	if err != nil || removed {
		t.Fatalf("Remove outside library = %v, %v", removed, err)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("file outside library must survive: %v", err)
	}
	if removed, err := lib.Remove(""); err != nil || removed {
		t.Fatalf("Remove empty = %v, %v", removed, err)
	}
}
