// Package liveview is a small HTTP handler that re-renders an HTML diff on
// GET and pushes a refreshed render over a websocket connection whenever
// either input file changes on disk, so a browser tab tracks two files
// being edited side by side.
package liveview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dpotapov/htmldiff"
)

var wsUpgrader = websocket.Upgrader{}

// Handler serves a single OLD/NEW HTML pair, re-rendering on every request
// and streaming re-renders to any connected websocket client when either
// file's mtime advances.
type Handler struct {
	// OldPath and NewPath are filesystem paths to the two HTML fragments
	// being diffed.
	OldPath, NewPath string

	// Config is the engine configuration used for every render. The zero
	// value is replaced with htmldiff.DefaultConfig on first use.
	Config htmldiff.Config

	// PollInterval controls how often the filesystem is checked for
	// changes while a websocket client is connected. Defaults to 500ms.
	PollInterval time.Duration

	// Logger configures logging for internal events; defaults to a
	// discarding logger.
	Logger *slog.Logger

	init   sync.Once
	logger *slog.Logger
}

func (h *Handler) initOnce() {
	h.init.Do(func() {
		// TODO: replace with slog.DiscardHandler once the Go version floor
		// for this module reaches 1.24.
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		if h.Logger != nil {
			h.logger = h.Logger
		}
		if h.PollInterval <= 0 {
			h.PollInterval = 500 * time.Millisecond
		}
		if h.Config.DiffIDAttr == "" {
			h.Config = htmldiff.DefaultConfig()
		}
	})
}

// ServeHTTP implements http.Handler. A plain GET renders the current diff;
// a websocket upgrade request instead streams a fresh render every time
// OldPath or NewPath's mtime changes, until the client disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.initOnce()

	if websocket.IsWebSocketUpgrade(r) {
		h.serveWS(w, r)
		return
	}

	out, err := h.render()
	if err != nil {
		h.logger.Error("render diff", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade", "error", err)
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// A disconnect is only detected by attempting a read; run one in the
	// background purely to learn when the client goes away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	lastOld, lastNew := h.mtimes()
	if err := h.pushRender(ws); err != nil {
		h.logger.Warn("push initial render", "error", err)
		return
	}

	ticker := time.NewTicker(h.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			old, nw := h.mtimes()
			if old.Equal(lastOld) && nw.Equal(lastNew) {
				continue
			}
			lastOld, lastNew = old, nw
			if err := h.pushRender(ws); err != nil {
				h.logger.Warn("push render", "error", err)
				return
			}
		}
	}
}

func (h *Handler) pushRender(ws *websocket.Conn) error {
	out, err := h.render()
	if err != nil {
		return err
	}
	w, err := ws.NextWriter(websocket.TextMessage)
	if err != nil {
		return fmt.Errorf("get websocket writer: %w", err)
	}
	if _, err := w.Write([]byte(out)); err != nil {
		return err
	}
	return w.Close()
}

func (h *Handler) render() (string, error) {
	oldHTML, err := os.ReadFile(h.OldPath)
	if err != nil {
		return "", err
	}
	newHTML, err := os.ReadFile(h.NewPath)
	if err != nil {
		return "", err
	}
	return htmldiff.RenderDiff(string(oldHTML), string(newHTML), "div", "diff", h.Config)
}

func (h *Handler) mtimes() (time.Time, time.Time) {
	var old, nw time.Time
	if fi, err := os.Stat(h.OldPath); err == nil {
		old = fi.ModTime()
	}
	if fi, err := os.Stat(h.NewPath); err == nil {
		nw = fi.ModTime()
	}
	return old, nw
}

var _ http.Handler = (*Handler)(nil)
