package tracker

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"materias-progress-backend/models/progress"
)

// Index renders the tracker page server side.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	d, err := h.Tracker.Dashboard(r.Context(), profileKey(r))
	if err != nil {
		log.Printf("Ошибка загрузки прогресса: %v", err)
		http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.Templates.ExecuteTemplate(&buf, "index.tmpl", d); err != nil {
		log.Printf("Ошибка рендеринга страницы: %v", err)
		http.Error(w, template.HTMLEscapeString(err.Error()), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Ошибка записи страницы: %v", err)
	}
}

// ToggleForm is the no-JavaScript variant of Toggle: it posts a form and redirects back.
func (h *Handler) ToggleForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(r.PostForm.Get("id"))
	if err != nil {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return
	}
	kind, err := progress.ParseKind(r.PostForm.Get("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	value, err := strconv.ParseBool(r.PostForm.Get("value"))
	if err != nil {
		http.Error(w, "Invalid value", http.StatusBadRequest)
		return
	}

	if _, err := h.Tracker.Toggle(r.Context(), profileKey(r), progress.Toggle{CourseID: id, Kind: kind, Value: value}); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("Ошибка сохранения прогресса: %v", err)
		}
		http.Error(w, err.Error(), status)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
