package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ukaji3/expivot-go/pkg/expivot"
	"github.com/ukaji3/expivot-go/pkg/expivot/output"
)

type indexPage struct {
	Error          string
	MaxUploadBytes int64
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	a.render(w, http.StatusOK, "index.html", indexPage{MaxUploadBytes: a.cfg.MaxUploadBytes})
}

func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	fail := func(status int, msg string) {
		a.render(w, status, "index.html", indexPage{Error: msg, MaxUploadBytes: a.cfg.MaxUploadBytes})
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(http.StatusRequestEntityTooLarge, fmt.Sprintf("File is larger than %d MB.", a.cfg.MaxUploadBytes>>20))
			return
		}
		fail(http.StatusBadRequest, "Please choose an Excel (.xlsx) or CSV file to upload.")
		return
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xlsm", ".csv":
	default:
		fail(http.StatusBadRequest, "Unsupported file type. Upload an .xlsx, .xlsm or .csv file.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		fail(http.StatusBadRequest, "Failed to read the uploaded file.")
		return
	}

	if _, err := expivot.SheetNamesReader(bytes.NewReader(data), header.Filename, expivot.DefaultOptions()); err != nil {
		log.Printf("[web] rejected upload %q: %v", header.Filename, err)
		fail(http.StatusBadRequest, "The file could not be opened as a spreadsheet: "+err.Error())
		return
	}

	u := a.uploads.Put(header.Filename, data)
	log.Printf("[web] stored upload %s (%q, %d bytes)", u.ID, u.Name, len(data))
	http.Redirect(w, r, "/w/"+u.ID, http.StatusSeeOther)
}

func (a *App) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	u, ok := a.uploads.Get(chi.URLParam(r, "id"))
	if !ok {
		a.render(w, http.StatusNotFound, "index.html", indexPage{
			Error:          "That upload has expired. Please upload the file again.",
			MaxUploadBytes: a.cfg.MaxUploadBytes,
		})
		return
	}

	ws := a.buildWorkspace(u, parsePivotForm(r.URL.Query()))
	if ws.Error != "" {
		log.Printf("[web] workspace %s: %s", u.ID, ws.Error)
	}
	a.render(w, http.StatusOK, "workspace.html", ws)
}

func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	u, ok := a.uploads.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "upload not found", http.StatusNotFound)
		return
	}

	ws := a.buildWorkspace(u, parsePivotForm(r.URL.Query()))
	if ws.Result == nil {
		msg := ws.Error
		if msg == "" {
			msg = ws.Info
		}
		http.Error(w, msg, http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", output.CSVContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.CSVFileName))
	if err := output.WriteCSV(w, ws.Result); err != nil {
		log.Printf("[web] export %s: %v", u.ID, err)
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uploads":   a.uploads.Len(),
	})
}

func (a *App) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf strings.Builder
	if err := a.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("[web] template %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, buf.String())
}
