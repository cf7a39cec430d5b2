package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// ErrInvalidCatalog is returned when the document parses but does not describe a usable catalog.
var ErrInvalidCatalog = errors.New("invalid catalog")

// HTTPClient is used for http(s) sources.
var HTTPClient = http.DefaultClient

type rawPrerequisites struct {
	RequiresTaken  []int `json:"requiresCursada"`
	RequiresPassed []int `json:"requiresAcreditar"`
}

type rawCourse struct {
	ID            *int              `json:"id"`
	Name          *string           `json:"nombre"`
	Year          *int              `json:"anio"`
	Prerequisites *rawPrerequisites `json:"prerrequisitos"`
}

type rawDocument struct {
	Courses *[]rawCourse `json:"materias"`
}

// Load fetches the catalog document from a file path or an http(s) URL and parses it.
func Load(ctx context.Context, source string) (*Catalog, error) {
	body, err := open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	cat, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return cat, nil
}

func open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	// Always read the latest published catalog.
	req.Header.Set("Cache-Control", "no-store")

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch catalog: HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Parse decodes and validates a catalog document.
func Parse(r io.Reader) (*Catalog, error) {
	var doc rawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.Courses == nil {
		return nil, fmt.Errorf("%w: missing \"materias\" list", ErrInvalidCatalog)
	}

	courses := make([]Course, 0, len(*doc.Courses))
	seen := make(map[int]bool, len(*doc.Courses))
	for i, raw := range *doc.Courses {
		switch {
		case raw.ID == nil:
			return nil, fmt.Errorf("%w: entry %d has no id", ErrInvalidCatalog, i)
		case *raw.ID <= 0:
			return nil, fmt.Errorf("%w: entry %d has non-positive id %d", ErrInvalidCatalog, i, *raw.ID)
		case raw.Name == nil:
			return nil, fmt.Errorf("%w: course %d has no nombre", ErrInvalidCatalog, *raw.ID)
		case raw.Year == nil:
			return nil, fmt.Errorf("%w: course %d has no anio", ErrInvalidCatalog, *raw.ID)
		case seen[*raw.ID]:
			return nil, fmt.Errorf("%w: duplicate course id %d", ErrInvalidCatalog, *raw.ID)
		}
		seen[*raw.ID] = true

		c := Course{ID: *raw.ID, Name: *raw.Name, Year: *raw.Year}
		if raw.Prerequisites != nil {
			c.Prerequisites = Prerequisites{
				RequiresTaken:  raw.Prerequisites.RequiresTaken,
				RequiresPassed: raw.Prerequisites.RequiresPassed,
			}
		}
		courses = append(courses, c)
	}
	return New(courses), nil
}
