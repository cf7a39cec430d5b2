package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"materias-progress-backend/models/catalog"
	"materias-progress-backend/models/progress"
	"materias-progress-backend/models/views"
	"materias-progress-backend/storage"
)

// ErrUnknownCourse is returned for ids that are not in the catalog.
var ErrUnknownCourse = errors.New("materia inexistente")

// ProgressStore is the persistence the tracker needs.
type ProgressStore interface {
	Load(ctx context.Context, key string) (progress.State, error)
	Save(ctx context.Context, key string, st progress.State) error
	Update(ctx context.Context, key string, fn func(*progress.State) error) (progress.State, error)
	Delete(ctx context.Context, key string) error
}

// Tracker ties the catalog to each profile's stored progress.
type Tracker struct {
	Catalog *catalog.Catalog
	Store   ProgressStore
	// OnSave, if set, receives the refreshed summary after every successful write.
	OnSave func(key string, sum progress.Summary)
}

func NewTracker(cat *catalog.Catalog, store ProgressStore) *Tracker {
	return &Tracker{Catalog: cat, Store: store}
}

// ProfileKey namespaces a profile id under the fixed state key.
func ProfileKey(profile string) string {
	return progress.StateKey + ":" + profile
}

// LoadState never fails on a missing or corrupt document: both read as an empty state.
func (t *Tracker) LoadState(ctx context.Context, key string) (progress.State, error) {
	st, err := t.Store.Load(ctx, key)
	var perr *progress.ParseError
	switch {
	case err == nil:
		return st, nil
	case errors.Is(err, storage.ErrNotFound):
		return progress.NewState(), nil
	case errors.As(err, &perr):
		log.Printf("Поврежденный прогресс %s, используется пустое состояние: %v", key, err)
		return progress.NewState(), nil
	}
	return progress.State{}, err
}

// Dashboard recomputes every view for the profile.
func (t *Tracker) Dashboard(ctx context.Context, key string) (views.Dashboard, error) {
	st, err := t.LoadState(ctx, key)
	if err != nil {
		return views.Dashboard{}, err
	}
	return views.BuildDashboard(t.Catalog, st), nil
}

// Course returns one course with its evaluated status.
func (t *Tracker) Course(ctx context.Context, key string, id int) (catalog.Course, progress.Status, error) {
	c, ok := t.Catalog.Get(id)
	if !ok {
		return catalog.Course{}, progress.Status{}, fmt.Errorf("%w: %d", ErrUnknownCourse, id)
	}
	st, err := t.LoadState(ctx, key)
	if err != nil {
		return catalog.Course{}, progress.Status{}, err
	}
	return c, progress.Evaluate(c, st), nil
}

// Summary returns false when the catalog is empty.
func (t *Tracker) Summary(ctx context.Context, key string) (progress.Summary, bool, error) {
	st, err := t.LoadState(ctx, key)
	if err != nil {
		return progress.Summary{}, false, err
	}
	sum, ok := progress.Summarize(t.Catalog, st)
	return sum, ok, nil
}

// Toggle applies the command, persists, and returns the re-derived views.
func (t *Tracker) Toggle(ctx context.Context, key string, cmd progress.Toggle) (views.Dashboard, error) {
	if _, ok := t.Catalog.Get(cmd.CourseID); !ok {
		return views.Dashboard{}, fmt.Errorf("%w: %d", ErrUnknownCourse, cmd.CourseID)
	}

	st, err := t.Store.Update(ctx, key, func(s *progress.State) error {
		return s.Apply(cmd)
	})
	if err != nil {
		return views.Dashboard{}, err
	}
	t.saved(key, st)
	return views.BuildDashboard(t.Catalog, st), nil
}

// Export returns the stored state as a document ready for download.
func (t *Tracker) Export(ctx context.Context, key string) ([]byte, error) {
	st, err := t.LoadState(ctx, key)
	if err != nil {
		return nil, err
	}
	return progress.Encode(st)
}

// Import replaces the whole state with the document. A rejected document leaves the store untouched.
func (t *Tracker) Import(ctx context.Context, key string, data []byte) (views.Dashboard, error) {
	st, err := progress.Import(data)
	if err != nil {
		return views.Dashboard{}, err
	}
	if err := t.Store.Save(ctx, key, st); err != nil {
		return views.Dashboard{}, err
	}
	t.saved(key, st)
	return views.BuildDashboard(t.Catalog, st), nil
}

// Reset forgets the profile's progress.
func (t *Tracker) Reset(ctx context.Context, key string) error {
	if err := t.Store.Delete(ctx, key); err != nil {
		return err
	}
	t.saved(key, progress.NewState())
	return nil
}

func (t *Tracker) saved(key string, st progress.State) {
	if t.OnSave == nil {
		return
	}
	if sum, ok := progress.Summarize(t.Catalog, st); ok {
		t.OnSave(key, sum)
	}
}
