package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// fragmentEvent is the payload of each "fragment" SSE event.
type fragmentEvent struct {
	Text string `json:"text"`
}

// sseStream opens the event stream lazily so that errors raised before the
// first fragment can still be reported with a proper status code.
type sseStream struct {
	c       *gin.Context
	started bool
}

func (s *sseStream) start() {
	if s.started {
		return
	}
	s.started = true
	s.c.Header("Content-Type", "text/event-stream")
	s.c.Header("Cache-Control", "no-cache")
	s.c.Header("Connection", "keep-alive")
	s.c.Header("X-Accel-Buffering", "no")
	s.c.Status(http.StatusOK)
}

func (s *sseStream) fragment(text string) {
	s.send("fragment", fragmentEvent{Text: text})
}

func (s *sseStream) send(event string, data any) {
	s.start()
	writeSSE(s.c.Writer, event, data)
	s.c.Writer.Flush()
}

// wantsStream reports whether the client asked for server-sent events.
func wantsStream(c *gin.Context) bool {
	switch strings.ToLower(c.Query("stream")) {
	case "1", "true", "yes":
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
