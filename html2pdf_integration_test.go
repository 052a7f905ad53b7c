//go:build integration

package docstudio

import (
	"bytes"
	"context"
	"testing"

	"github.com/alnah/go-docstudio/internal/artifact"
)

const integrationDocument = `<!DOCTYPE html>
<html>
<head><title>Integration</title><style>h1 { color: navy; }</style></head>
<body><h1>Hello, World!</h1><p>This is a test document.</p></body>
</html>`

func assertValidPDF(t *testing.T, data []byte) artifact.Info {
	t.Helper()

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("data does not have PDF magic bytes, got prefix: %q", data[:min(10, len(data))])
	}
	info, err := artifact.Inspect(data)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.Pages < 1 {
		t.Errorf("PDF has %d pages", info.Pages)
	}
	return info
}

func integrationJob() PrintJob {
	return PrintJob{
		Document: integrationDocument,
		Footer:   &Decoration{Text: "Footer", ShowPageNumber: true, Alignment: "center"},
		Margins:  Margins{Top: 20, Right: 20, Bottom: 20, Left: 20, Unit: UnitMillimetre},
		Date:     "1/2/2026",
	}
}

func TestRodPaginator_Integration(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	data, err := testPool.Paginate(ctx, integrationJob())
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	assertValidPDF(t, data)
}

func TestChromedpPaginator_Integration(t *testing.T) {
	t.Parallel()

	p, err := NewPaginator(BackendChromedp, WithPaginatorTimeout(testTimeout))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = p.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	data, err := p.Paginate(ctx, integrationJob())
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	assertValidPDF(t, data)
}

func TestStudio_Export_Integration(t *testing.T) {
	t.Parallel()

	s, err := NewStudio(WithPaginator(testPool), WithDocument(integrationDocument))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	if err := s.UpdateDecoration(TargetHeader, Decoration{Text: "Header", ShowDate: true}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	if _, err := s.RequestExport(ctx); err != nil {
		t.Fatalf("RequestExport() error = %v", err)
	}
	dl, err := s.DownloadLastArtifact(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assertValidPDF(t, dl.Data)
}
