package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/urbanshop/urbanshop-backend/api/responses"
	"github.com/urbanshop/urbanshop-backend/internal/feed"
	pkgerrors "github.com/urbanshop/urbanshop-backend/pkg/errors"
	"github.com/urbanshop/urbanshop-backend/pkg/logger"
)

// heartbeatInterval keeps idle SSE connections alive through proxies that
// close quiet streams.
const heartbeatInterval = 25 * time.Second

// streamFeed serves a server-sent-events stream for the topic. Every snapshot
// is delivered as one `data:` event holding the full JSON document.
func streamFeed(w http.ResponseWriter, r *http.Request, hub *feed.Hub, topic string, load feed.Loader, logg *logger.Logger) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
		return
	}

	sub, err := hub.Subscribe(r.Context(), topic, load)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case snapshot, open := <-sub.Snapshots:
			if !open {
				return
			}
			payload, err := json.Marshal(snapshot)
			if err != nil {
				if logg != nil {
					logg.Error(r.Context(), "encode feed snapshot", err)
				}
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case streamErr, open := <-sub.Errs:
			if !open {
				return
			}
			if logg != nil {
				logg.Warn(r.Context(), "feed stream terminated: "+streamErr.Error())
			}
			fmt.Fprint(w, "event: error\ndata: {\"error\":\"stream closed\"}\n\n")
			flusher.Flush()
			return
		}
	}
}
