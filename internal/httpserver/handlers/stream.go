package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/partnerfinder/internal/httpserver/deps"
	"github.com/MrSnakeDoc/partnerfinder/internal/liveview"
	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

// streamKeepAlive is the interval between SSE comment lines that keep idle
// proxies from closing the connection.
const streamKeepAlive = 25 * time.Second

// StreamListings pushes the live listing set as Server-Sent Events. Each
// connection hosts its own view: a "listings" event carries the full visible
// set, an "error" event reports a failed refresh.
func StreamListings(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		rc := http.NewResponseController(w)
		// The server-wide WriteTimeout would cut the stream.
		if err := rc.SetWriteDeadline(time.Time{}); err != nil {
			d.Logger.Debug("cannot clear write deadline", logger.Error(err))
		}

		log := d.Logger.With(logger.String("request_id", middleware.GetReqID(r.Context())))
		view := liveview.New(d.Listings, d.Feed, log, liveview.Options{
			Now:              d.Now,
			RefilterInterval: d.RefilterInterval,
			Query:            q,
		})

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-store")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		if err := rc.Flush(); err != nil {
			log.Warn("streaming not supported by response writer", logger.Error(err))
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		done := make(chan error, 1)
		go func() { done <- view.Run(ctx) }()
		defer func() {
			cancel()
			if err := <-done; err != nil {
				log.Warn("live view stopped", logger.Error(err))
			}
			log.Debug("listing stream closed")
		}()

		log.Debug("listing stream opened")

		keepAlive := time.NewTicker(streamKeepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case snap, ok := <-view.Updates():
				if !ok {
					return
				}
				if err := writeSnapshot(w, snap); err != nil {
					log.Debug("failed to write event", logger.Error(err))
					return
				}
			case <-keepAlive.C:
				if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
					return
				}
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

type streamError struct {
	Error string `json:"error"`
}

func writeSnapshot(w io.Writer, s liveview.Snapshot) error {
	if s.Err != nil {
		return writeEvent(w, "error", streamError{Error: s.Err.Error()})
	}
	return writeEvent(w, "listings", s.Listings)
}

func writeEvent(w io.Writer, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
