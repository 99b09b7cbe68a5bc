// Package export renders a conversation transcript for download.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PabloGalante/tripmate/internal/domain"
)

// Document is the exportable view of a session: configuration plus every
// non-system message.
type Document struct {
	SessionID  domain.SessionID    `json:"session_id" yaml:"session_id"`
	Config     domain.TravelConfig `json:"config" yaml:"config"`
	ExportedAt time.Time           `json:"exported_at" yaml:"exported_at"`
	Messages   []domain.Message    `json:"messages" yaml:"messages"`
}

// NewDocument builds a Document from a conversation read view.
func NewDocument(id domain.SessionID, cfg domain.TravelConfig, conv domain.Conversation, at time.Time) *Document {
	return &Document{
		SessionID:  id,
		Config:     cfg,
		ExportedAt: at,
		Messages:   conv.Turns(),
	}
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(doc *Document, w io.Writer) error
	Extension() string
	ContentType() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "txt", "text":
		return &TextExporter{Header: true}, nil
	case "plain":
		return &TextExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: txt, plain, md, json, yaml)", format)
	}
}

// Filename embeds a timestamp so repeated downloads do not collide.
func Filename(e Exporter, at time.Time) string {
	return fmt.Sprintf("tripmate-chat-%s.%s", at.Format("20060102-150405"), e.Extension())
}
