package tracker

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"materias-progress-backend/controllers/authentication"
	"materias-progress-backend/models/progress"
	"materias-progress-backend/services"
	"materias-progress-backend/storage"
)

const (
	importedMessage = "Progreso importado correctamente."
	badFormatMsg    = "El archivo no tiene el formato correcto."
	badJSONMsg      = "Error al leer el archivo JSON."
)

// Handler serves the tracker page and its JSON API.
type Handler struct {
	Tracker      *services.Tracker
	Templates    *template.Template
	Profiles     *authentication.Profiles
	MaxBodyBytes int64
}

func New(t *services.Tracker, tmpl *template.Template, profiles *authentication.Profiles, maxBody int64) *Handler {
	return &Handler{Tracker: t, Templates: tmpl, Profiles: profiles, MaxBodyBytes: maxBody}
}

// Register mounts every route on r behind the profile middleware.
func (h *Handler) Register(r *mux.Router) {
	r.Use(h.Profiles.Middleware)

	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/toggle", h.ToggleForm).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog", h.Catalog).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/courses/{id:[0-9]+}", h.Course).Methods(http.MethodGet)
	api.HandleFunc("/toggle", h.Toggle).Methods(http.MethodPost)
	api.HandleFunc("/progress", h.Progress).Methods(http.MethodGet)
	api.HandleFunc("/progress", h.Reset).Methods(http.MethodDelete)
	api.HandleFunc("/export", h.Export).Methods(http.MethodGet)
	api.HandleFunc("/import", h.Import).Methods(http.MethodPost)
	api.HandleFunc("/token", h.Profiles.HandleToken).Methods(http.MethodGet)
}

func profileKey(r *http.Request) string {
	profile, _ := authentication.ProfileFrom(r.Context())
	return services.ProfileKey(profile)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Ошибка записи ответа: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	var perr *progress.ParseError
	switch {
	case errors.Is(err, services.ErrUnknownCourse):
		return http.StatusNotFound
	case errors.Is(err, progress.ErrUnknownKind),
		errors.Is(err, progress.ErrMissingField),
		errors.As(err, &perr):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, status, "Ошибка сервера")
		return
	}
	writeError(w, status, err.Error())
}

// Catalog returns the loaded catalog.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Tracker.Catalog)
}

// Dashboard returns checklist, matrix and progress for the profile.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Tracker.Dashboard(r.Context(), profileKey(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type courseResp struct {
	Course interface{}     `json:"materia"`
	Status progress.Status `json:"status"`
}

func (h *Handler) Course(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course ID")
		return
	}
	c, st, err := h.Tracker.Course(r.Context(), profileKey(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, courseResp{Course: c, Status: st})
}

type toggleReq struct {
	ID    int    `json:"id"`
	Kind  string `json:"kind"`
	Value bool   `json:"value"`
}

// Toggle applies one checkbox change and returns the re-derived dashboard.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	kind, err := progress.ParseKind(req.Kind)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.Tracker.Toggle(r.Context(), profileKey(r), progress.Toggle{CourseID: req.ID, Kind: kind, Value: req.Value})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Progress returns the summary, or 204 for an empty catalog.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	sum, ok, err := h.Tracker.Summary(r.Context(), profileKey(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.Reset(r.Context(), profileKey(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export downloads the stored state document.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.Tracker.Export(r.Context(), profileKey(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+progress.ExportFilename+`"`)
	w.Write(data)
}

// Import accepts the document as the raw body or as the "file" field of a multipart form.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, ferr := r.FormFile("file")
		if ferr != nil {
			err = ferr
		} else {
			defer file.Close()
			data, err = io.ReadAll(file)
		}
	} else {
		data, err = io.ReadAll(r.Body)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "archivo demasiado grande")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to read file: "+err.Error())
		return
	}

	d, err := h.Tracker.Import(r.Context(), profileKey(r), data)
	if err != nil {
		var perr *progress.ParseError
		switch {
		case errors.Is(err, progress.ErrMissingField):
			writeError(w, http.StatusBadRequest, badFormatMsg)
		case errors.As(err, &perr):
			writeError(w, http.StatusBadRequest, badJSONMsg)
		default:
			h.fail(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   importedMessage,
		"dashboard": d,
	})
}
