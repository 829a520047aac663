package http

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/testgen-lite/testgen/internal/assemble"
	"github.com/testgen-lite/testgen/internal/bank"
	"github.com/testgen-lite/testgen/internal/export"
	"github.com/testgen-lite/testgen/internal/session"
	"github.com/testgen-lite/testgen/internal/storage"
)

// ExportTestHandler renders the test document and serves it as a Markdown
// download. A copy is archived in the blob store; archival failure only logs,
// the download still succeeds.
func ExportTestHandler(b *bank.Store, st session.Store, blobs storage.BlobStore) http.HandlerFunc {
	return exportHandler(b, st, blobs, "test.md", export.RenderTest)
}

// ExportKeyHandler renders the answer key document.
func ExportKeyHandler(b *bank.Store, st session.Store, blobs storage.BlobStore) http.HandlerFunc {
	return exportHandler(b, st, blobs, "answer_key.md", export.RenderKey)
}

// ArchivedExportHandler serves the archived copy of a previously exported
// document without re-rendering it. {doc} is "test" or "key"; 404 until the
// matching export has run at least once.
func ArchivedExportHandler(st session.Store, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := fetchOwned(w, r, st)
		if !ok {
			return
		}
		var filename string
		switch chi.URLParam(r, "doc") {
		case "test":
			filename = "test.md"
		case "key":
			filename = "answer_key.md"
		default:
			http.Error(w, "unknown document", http.StatusBadRequest)
			return
		}
		if blobs == nil {
			http.Error(w, "no archived copy", http.StatusNotFound)
			return
		}
		rc, err := blobs.Get("sessions/" + s.ID + "/" + filename)
		if err != nil {
			http.Error(w, "no archived copy", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		_, _ = io.Copy(w, rc)
	}
}

func exportHandler(b *bank.Store, st session.Store, blobs storage.BlobStore, filename string, render func(*bank.Store, assemble.Sequence) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := fetchOwned(w, r, st)
		if !ok {
			return
		}
		doc := render(b, s.Instances)
		if blobs != nil {
			key := "sessions/" + s.ID + "/" + filename
			if _, err := blobs.Put(key, strings.NewReader(doc)); err != nil {
				log.Printf("archive export %s: %v", key, err)
			}
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		_, _ = w.Write([]byte(doc))
	}
}
