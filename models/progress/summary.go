package progress

import (
	"fmt"
	"math"

	"materias-progress-backend/models/catalog"
)

// Band messages, keyed by the percentage of passed courses.
const (
	MessageBaseline = "Seguí sumando materias."
	MessageTierA    = "¡Bien! Ya podés anotarte en Listado de Emergencia."
	MessageTierB    = "¡Excelente! Habilitado para Listado 108 B Item 5."
	MessageTierC    = "¡Casi listo! Habilitado para Listado 108 B Item 4."
	MessageComplete = "¡Felicitaciones! Título completo (Listado 108 A)."
)

// Summary is the progress bar state.
type Summary struct {
	Passed  int    `json:"passed"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
	Text    string `json:"text"`
}

// Percent rounds passed/total to the nearest whole percentage. total must be positive.
func Percent(passed, total int) int {
	return int(math.Round(float64(passed) / float64(total) * 100))
}

// BandMessage maps a percentage to its advisory message.
// Bands are [0,25), [25,50), [50,75), [75,100) and exactly 100.
func BandMessage(percent int) string {
	switch {
	case percent == 100:
		return MessageComplete
	case percent >= 75 && percent < 100:
		return MessageTierC
	case percent >= 50 && percent < 75:
		return MessageTierB
	case percent >= 25 && percent < 50:
		return MessageTierA
	}
	return MessageBaseline
}

// Summarize counts every passed entry of the state against the catalog size.
// Ids left over from an older catalog still count, but the percentage never exceeds 100.
// It returns false for an empty catalog.
func Summarize(cat *catalog.Catalog, s State) (Summary, bool) {
	total := cat.Len()
	if total == 0 {
		return Summary{}, false
	}

	passed := 0
	for _, v := range s.Passed {
		if v {
			passed++
		}
	}

	pct := Percent(passed, total)
	if pct > 100 {
		pct = 100
	}
	msg := BandMessage(pct)
	return Summary{
		Passed:  passed,
		Total:   total,
		Percent: pct,
		Message: msg,
		Text:    fmt.Sprintf("%d/%d Materias (%d%%) • %s", passed, total, pct, msg),
	}, true
}
