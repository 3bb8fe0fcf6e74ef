package handler

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"lldpgraph/internal/codec"
)

// DefaultPage is the diagram file served at the root
const DefaultPage = "diagram.html"

// reloadScript reloads the page on every server-sent event
const reloadScript = `<script type="text/javascript">
new EventSource("/events").onmessage = function () { location.reload(); };
</script>
`

// DiagramHandler serves a diagram directory
type DiagramHandler struct {
	dir      string
	page     string
	topology string
	events   http.Handler
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is returned by /healthz
type HealthResponse struct {
	OK   bool   `json:"ok"`
	Page string `json:"page"`
}

// NewDiagramHandler creates a handler for the diagram at page inside dir.
// topology is an optional exported topology file; pass "" to disable
// /api/topology.
func NewDiagramHandler(dir, page, topology string) *DiagramHandler {
	if page == "" {
		page = DefaultPage
	}
	return &DiagramHandler{dir: dir, page: page, topology: topology}
}

// EnableLiveReload mounts events at /events and makes served pages reload
// whenever it sends one
func (h *DiagramHandler) EnableLiveReload(events http.Handler) {
	h.events = events
}

// Routes builds the router
func (h *DiagramHandler) Routes() http.Handler {
	r := chi.NewRouter()

	assets := http.FileServer(http.Dir(h.dir))

	r.Get("/", h.GetDiagram)
	r.Get("/healthz", h.Health)
	r.Get("/api/topology", h.GetTopology)
	if h.events != nil {
		r.Handle("/events", h.events)
	}
	r.Handle("/files/*", assets)
	r.Handle("/icons/*", assets)
	r.Get("/{page}", h.GetPage)

	return r
}

// GetDiagram serves the configured diagram page
func (h *DiagramHandler) GetDiagram(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, h.page)
}

// GetPage serves another diagram rendered into the same directory
func (h *DiagramHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	if filepath.Ext(page) != ".html" {
		writeError(w, "Not found", page, http.StatusNotFound)
		return
	}
	h.servePage(w, r, page)
}

func (h *DiagramHandler) servePage(w http.ResponseWriter, r *http.Request, page string) {
	path := filepath.Join(h.dir, filepath.Base(page))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeError(w, "Diagram not found", page, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if h.events == nil {
		http.ServeFile(w, r, path)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		writeError(w, "Failed to read diagram", err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(injectReload(string(data))))
}

// injectReload adds the reload script before the closing body tag
func injectReload(page string) string {
	if i := strings.LastIndex(page, "</body>"); i >= 0 {
		return page[:i] + reloadScript + page[i:]
	}
	return page + reloadScript
}

// GetTopology returns the exported topology as JSON
func (h *DiagramHandler) GetTopology(w http.ResponseWriter, r *http.Request) {
	if h.topology == "" {
		writeError(w, "No topology export configured", "", http.StatusNotFound)
		return
	}

	importer, err := codec.ImporterFor(h.topology)
	if err != nil {
		writeError(w, "Unsupported topology file", err.Error(), http.StatusInternalServerError)
		return
	}

	f, err := os.Open(h.topology)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, "Topology export not found", h.topology, http.StatusNotFound)
			return
		}
		writeError(w, "Failed to open topology", err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	fragment, err := importer.Parse(f)
	if err != nil {
		log.Printf("Handler: failed to parse %s: %v", h.topology, err)
		writeError(w, "Failed to parse topology", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, fragment, http.StatusOK)
}

// Health reports whether the diagram page exists
func (h *DiagramHandler) Health(w http.ResponseWriter, r *http.Request) {
	_, err := os.Stat(filepath.Join(h.dir, h.page))
	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, HealthResponse{OK: err == nil, Page: h.page}, status)
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Handler: failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}
