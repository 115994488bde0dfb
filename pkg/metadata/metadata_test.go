package metadata

import (
	"errors"
	"strings"
	"testing"
)

func TestSignAndVerify(t *testing.T) {
	content := "# Ward summary\n\n| Ward | Total |\n| --- | --- |\n| Aston | 12 |\n"

	signed := Sign(content, "1.0", true)

	if !strings.Contains(signed, TagStart) || !strings.Contains(signed, TagEnd) {
		t.Fatal("Expected signed content to contain metadata tags")
	}

	ok, err := Verify(signed)
	if !ok {
		t.Fatalf("Verify failed: %v", err)
	}
}

func TestVerify_Tampered(t *testing.T) {
	signed := Sign("original report body", "1.0", true)
	tampered := strings.Replace(signed, "original", "edited", 1)

	ok, err := Verify(tampered)
	if ok {
		t.Fatal("Expected verification to fail for tampered content")
	}

	if !errors.Is(err, ErrHashMismatch) {
		t.Fatalf("Expected ErrHashMismatch, got %v", err)
	}
}

func TestVerify_NoBlock(t *testing.T) {
	ok, err := Verify("just a plain report")
	if ok {
		t.Fatal("Expected verification to fail without a metadata block")
	}

	if !errors.Is(err, ErrNoMetadataBlock) {
		t.Fatalf("Expected ErrNoMetadataBlock, got %v", err)
	}
}

func TestSign_Idempotent(t *testing.T) {
	first := Sign("report body", "1.0", false)
	second := Sign(first, "1.1", true)

	if strings.Count(second, TagStart) != 1 {
		t.Error("Expected a single metadata block after re-signing")
	}

	meta, clean := Extract(second)
	if meta == nil {
		t.Fatal("Expected metadata after re-signing")
	}

	if meta.Version != "1.1" {
		t.Errorf("Expected version 1.1, got %s", meta.Version)
	}

	if !meta.Validated {
		t.Error("Expected validated flag to be true")
	}

	if clean != "report body" {
		t.Errorf("Expected clean content 'report body', got %q", clean)
	}
}
