package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/alexnavarro1/StreamEvents/internal/usecase/assistant"
)

// streamSSE relays assistant frames as server-sent events, one
// "data: {json}\n\n" block per frame, flushed immediately. The response
// ends when the frame channel closes or the client disconnects.
func (s *Server) streamSSE(w http.ResponseWriter, r *http.Request, frames <-chan assistant.Frame) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("response writer does not support streaming")
		writeError(w, http.StatusInternalServerError, "internal_error", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case frame, open := <-frames:
			if !open {
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				s.logger.Error("failed to marshal stream frame", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				// Client went away mid-write.
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
