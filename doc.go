// Package docstudio edits HTML documents and exports them to PDF.
//
// # Quick Start
//
// Create a studio, edit the document, and export it:
//
//	studio, err := docstudio.NewStudio()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer studio.Close()
//
//	_ = studio.Edit("", "<h1>Hello</h1>")
//	key, err := studio.RequestExport(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dl, _ := studio.DownloadLastArtifact(ctx)
//	os.WriteFile(dl.Name, dl.Data, 0o644)
//
// # Session Model
//
// A Studio owns one editing session: the document in combined or separated
// form (markup, style, script), page header and footer, margins, the
// assistant conversation and its pending suggestion. Every change goes
// through a pure reducer; network work (pagination, assistant calls) runs
// outside the studio lock and reports back as events. One export and one
// assistant request may be in flight at a time; a second is refused with
// ErrExportInFlight or ErrAssistInFlight.
//
// # Paginators
//
// Two backends render PDFs through headless Chrome:
//
//   - "rod" (default): go-rod, document loaded from a temporary file
//   - "chromedp": chromedp, document loaded from a data URL
//
// Header and footer templates are built from the session decorations.
// An absent decoration is never sent; a footer alone is paired with an
// empty header and a blanked document title so Chrome prints nothing above.
//
// # Configuration
//
// Use functional options to customize the studio:
//
//	studio, err := docstudio.NewStudio(
//	    docstudio.WithPaginator(pag),
//	    docstudio.WithArtifactStore(store),
//	    docstudio.WithLogger(logger),
//	    docstudio.WithDateFormat("long"),
//	)
package docstudio
