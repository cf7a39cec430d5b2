package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"materias-progress-backend/config"
	"materias-progress-backend/controllers/authentication"
	"materias-progress-backend/controllers/httpCors"
	"materias-progress-backend/controllers/tracker"
	"materias-progress-backend/models/catalog"
	"materias-progress-backend/models/progress"
	"materias-progress-backend/services"
	"materias-progress-backend/storage"
	"materias-progress-backend/web"
)

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		log.Printf("%s %s %d %dB %s", r.Method, r.URL.Path, sw.status, sw.bytes, time.Since(start).Round(time.Millisecond))
	})
}

func main() {
	cfg := config.Load()

	// Инициализируем базу данных
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Ошибка инициализации базы данных: %v", err)
	}
	log.Println("Подключение к базе данных успешно")

	keys, err := config.DeriveKeys(cfg.SessionSecret)
	if err != nil {
		log.Fatalf("Ошибка генерации ключей: %v", err)
	}

	var handler http.Handler
	cat, err := catalog.Load(context.Background(), cfg.CatalogSource)
	if err != nil {
		// Без каталога ничего не рендерим: каждая страница показывает ошибку.
		log.Printf("Ошибка загрузки каталога: %v", err)
		handler = tracker.Unavailable(err)
	} else {
		log.Printf("Загружено %d курсов из %s", cat.Len(), cfg.CatalogSource)

		t := services.NewTracker(cat, storage.NewProgressStore(db, cfg.MaxDocumentBytes))
		t.OnSave = func(key string, sum progress.Summary) {
			log.Printf("Прогресс %s: %s", key, sum.Text)
		}
		profiles := authentication.NewProfiles(config.NewSessionStore(cfg, keys), keys.JWT, cfg.TokenTTL)
		h := tracker.New(t, web.Templates(), profiles, int64(cfg.MaxDocumentBytes))

		r := mux.NewRouter()
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(web.StaticFS())))
		h.Register(r.NewRoute().Subrouter())
		handler = r
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           requestLogger(httpCors.CorsSettings(cfg.CORSOrigins).Handler(handler)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Запускаем сервер
	log.Printf("Сервер запущен на порту %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
