package pdfstract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/AKSarav/pdfstract"
)

func TestRegistry_NamesInRegistrationOrder(t *testing.T) {
	reg := newStubRegistry(
		&stubExtractor{name: "zeta"},
		&stubExtractor{name: "alpha"},
		&stubExtractor{name: "mid"},
	)
	got := reg.Names()
	want := []string{"zeta", "alpha", "mid"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_UnavailableBackendStaysListed(t *testing.T) {
	reg := newStubRegistry(
		&stubExtractor{name: "good", text: "x"},
		&stubExtractor{name: "broken", probeErr: errors.New("libmupdf.so not found")},
	)

	infos := reg.List()
	if len(infos) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(infos))
	}
	if !infos[0].Available || infos[0].Error != "" {
		t.Errorf("good: %+v", infos[0])
	}
	if infos[1].Available {
		t.Error("broken backend reported available")
	}
	if infos[1].Error == "" {
		t.Error("broken backend does not carry its probe error")
	}

	if _, err := reg.Lookup("good"); err != nil {
		t.Errorf("Lookup(good): %v", err)
	}
	_, err := reg.Lookup("broken")
	if !errors.Is(err, pdfstract.ErrLibraryUnavailable) {
		t.Errorf("Lookup(broken) = %v, want ErrLibraryUnavailable", err)
	}
}

func TestRegistry_ReRegisterReplaces(t *testing.T) {
	reg := newStubRegistry(&stubExtractor{name: "a", text: "old"})
	reg.Register(&stubExtractor{name: "a", text: "new"})

	if got := reg.Names(); len(got) != 1 {
		t.Fatalf("Names() = %v, want single entry", got)
	}
	ext, err := reg.Lookup("a")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	out, err := ext.Extract(context.Background(), "unused")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if out.Text != "new" {
		t.Errorf("Extract returned %q, want the replacement backend", out.Text)
	}
}

func TestDefaultRegistry_KnownBackends(t *testing.T) {
	names := pdfstract.DefaultRegistry().Names()
	want := map[string]bool{
		"native": false, "ledongthuc": false, "rsc": false,
		"fitz": false, "pdfcpu": false, "tesseract": false,
	}
	for _, n := range names {
		if _, ok := want[n]; !ok {
			t.Errorf("unexpected backend %q", n)
		}
		want[n] = true
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("backend %q not registered", n)
		}
	}
}
