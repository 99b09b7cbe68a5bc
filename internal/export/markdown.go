package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/PabloGalante/tripmate/internal/domain"
)

// MarkdownExporter exports the conversation in Markdown format
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(doc *Document, w io.Writer) error {
	cfg := doc.Config

	_, _ = fmt.Fprintf(w, "# Trip planning chat\n\n")
	_, _ = fmt.Fprintf(w, "**Style:** %s  \n", cfg.Style)
	_, _ = fmt.Fprintf(w, "**Budget per person:** %d USD  \n", cfg.BudgetPerPerson)
	_, _ = fmt.Fprintf(w, "**Duration:** %d days  \n", cfg.Days)
	_, _ = fmt.Fprintf(w, "**Companions:** %d  \n", cfg.Companions)
	_, _ = fmt.Fprintf(w, "**Exported:** %s\n\n", doc.ExportedAt.Format("2006-01-02 15:04"))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range doc.Messages {
		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", roleHeading(msg.Role), msg.Content)

		// Add horizontal rule after each message (except the last one)
		if i < len(doc.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func roleHeading(r domain.Role) string {
	label := r.Label()
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}

func (e *MarkdownExporter) ContentType() string {
	return "text/markdown; charset=utf-8"
}
