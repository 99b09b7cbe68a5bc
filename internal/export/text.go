package export

import (
	"fmt"
	"io"

	"github.com/PabloGalante/tripmate/internal/domain"
)

// TextExporter writes the plain transcript, one "<role>: <content>" block per
// message. Header adds the trip settings and export time on top.
type TextExporter struct {
	Header bool
}

func (e *TextExporter) Export(doc *Document, w io.Writer) error {
	if e.Header {
		cfg := doc.Config
		if _, err := fmt.Fprintf(w,
			"Trip style: %s\nBudget per person: %d USD\nDuration: %d days\nCompanions: %d\nExported at: %s\n\n---\n\n",
			cfg.Style, cfg.BudgetPerPerson, cfg.Days, cfg.Companions,
			doc.ExportedAt.Format("2006-01-02 15:04:05")); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, domain.Conversation(doc.Messages).Transcript())
	return err
}

func (e *TextExporter) Extension() string {
	return "txt"
}

func (e *TextExporter) ContentType() string {
	return "text/plain; charset=utf-8"
}
