package tracker

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"strings"
)

var errorPanel = template.Must(template.New("error").Parse(`<html><body>
<div style="padding:20px; color:red; text-align:center">
	<h3>Error cargando materias</h3>
	<p>Verifica que el archivo de materias esté disponible y tenga el formato correcto.</p>
	<small>{{.}}</small>
</div>
</body></html>`))

// Unavailable answers every request with the catalog load error. The server
// does not retry; it has to be restarted once the catalog is fixed.
func Unavailable(loadErr error) http.Handler {
	msg := loadErr.Error()

	var page bytes.Buffer
	if err := errorPanel.Execute(&page, msg); err != nil {
		log.Printf("Ошибка рендеринга страницы ошибки: %v", err)
		page.Reset()
		page.WriteString(template.HTMLEscapeString(msg))
	}
	body := page.Bytes()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusServiceUnavailable, "Error cargando materias: "+msg)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write(body); err != nil {
			log.Printf("Ошибка записи страницы ошибки: %v", err)
		}
	})
}
