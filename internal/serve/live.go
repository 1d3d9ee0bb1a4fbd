package serve

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/rview/internal/demo"
	"github.com/vango-dev/rview/pkg/dom"
	"github.com/vango-dev/rview/pkg/ssr"
	"github.com/vango-dev/rview/pkg/view"
)

// clientEvent is sent by the browser for every click on an element with
// an id.
type clientEvent struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Raw    any    `json:"raw,omitempty"`
}

// serverUpdate replaces the element with the given id.
type serverUpdate struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

const writeWait = 5 * time.Second

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	ex, err := demo.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.config.Logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	logger := s.config.Logger.With("example", ex.Name)
	if err := s.session(ctx, conn, ex); err != nil {
		logger.Debug("live session ended", "error", err)
		return
	}
	logger.Debug("live session ended")
}

// session mirrors the browser's page in a document, hydrates the example
// against it and relays events and updates until ctx is done or the
// connection drops.
func (s *Server) session(ctx context.Context, conn *websocket.Conn, ex demo.Example) error {
	var buf bytes.Buffer
	if err := ssr.RenderPage(ctx, &buf, ex.Name, examplePage(ex), s.ssrOptions()...); err != nil {
		return err
	}
	doc, err := dom.Parse(&buf)
	if err != nil {
		return err
	}
	v, err := view.Hydrate[*dom.Node](ctx, doc, ex.New(), s.config.ViewOptions...)
	if err != nil {
		return err
	}
	defer v.Dispose()

	root := v.Node()
	id, _ := root.Attribute("id")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			var ev clientEvent
			if err := conn.ReadJSON(&ev); err != nil {
				return err
			}
			target, ok := doc.ElementByID(ev.Target)
			if !ok {
				continue
			}
			doc.Fire(target, ev.Type, ev.Raw)
		}
	})
	g.Go(func() error {
		// Unblocks the reader once the session is over.
		defer conn.Close()

		last := root.HTML()
		ticker := time.NewTicker(s.config.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return nil
			case <-ticker.C:
			}
			html := root.HTML()
			if html == last {
				continue
			}
			last = html
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(serverUpdate{ID: id, HTML: html}); err != nil {
				return err
			}
		}
	})
	return g.Wait()
}

const liveScript = `(function () {
  var script = document.currentScript;
  var name = script.getAttribute("data-example");
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/examples/" + name + "/live");
  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    var el = document.getElementById(msg.id);
    if (el) { el.outerHTML = msg.html; }
  };
  document.addEventListener("click", function (e) {
    var el = e.target.closest("[id]");
    if (!el || ws.readyState !== WebSocket.OPEN) { return; }
    var raw = null;
    var from = el.getAttribute("data-raw-from");
    if (from) {
      var src = document.getElementById(from);
      if (src) { raw = src.value; }
    }
    ws.send(JSON.stringify({type: "click", target: el.id, raw: raw}));
  });
})();
`
