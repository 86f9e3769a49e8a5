package httpServer

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/screenrec/screenrec/internal/config"
	"github.com/screenrec/screenrec/internal/logging"
)

//go:embed templates/*
var templateFiles embed.FS

// MediaInfo is one recording or screenshot shown on the listing page.
type MediaInfo struct {
	Filename    string
	DisplayName string
	Size        string
	IsImage     bool
}

type templateData struct {
	Recordings  []MediaInfo
	Screenshots []MediaInfo
	NoMedia     bool
	StatusMsg   string
	StatusCode  string
}

// Server lists the output directory over HTTP: the recordings and
// screenshots, the files themselves, image thumbnails, and a websocket that
// mirrors the recorder's status feed.
type Server struct {
	cfg       *config.Config
	log       *logging.Logger
	templates *template.Template
	hub       *wsHub
	srv       *http.Server
}

func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Server{
		cfg:       cfg,
		log:       log,
		templates: tmpl,
		hub:       newWsHub(log),
	}, nil
}

// Start runs the server until Stop is called. Intended to run in its own
// goroutine.
func (s *Server) Start() {
	router := mux.NewRouter()

	router.PathPrefix("/media/").Handler(
		http.StripPrefix("/media/", http.FileServer(http.Dir(s.cfg.OutputDir))))
	router.HandleFunc("/thumb/{name}", s.handleThumbnail)
	router.HandleFunc("/ws", s.hub.handleWebSocket)
	router.HandleFunc("/", s.handleList)

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.srv = &http.Server{
		Addr:    addr,
		Handler: router,
	}

	s.log.Info.Printf("serving media listing on %s from %s", addr, s.cfg.OutputDir)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Error.Printf("media server stopped: %v", err)
	}
}

// Stop shuts the server down, allowing in-flight requests a short drain.
func (s *Server) Stop() {
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Warning.Printf("media server shutdown: %v", err)
	}
}

// handleList renders the output directory, newest first, recordings and
// screenshots in separate sections.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.cfg.OutputDir)
	if err != nil && !os.IsNotExist(err) {
		http.Error(w, "failed to read output directory", http.StatusInternalServerError)
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() > entries[j].Name()
	})

	data := templateData{}
	data.StatusCode, data.StatusMsg = s.hub.lastStatus()
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info := mediaInfoFor(e)
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".mp4", ".mkv", ".webm":
			data.Recordings = append(data.Recordings, info)
		case ".png", ".jpg", ".jpeg":
			info.IsImage = true
			data.Screenshots = append(data.Screenshots, info)
		}
	}
	data.NoMedia = len(data.Recordings) == 0 && len(data.Screenshots) == 0

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// mediaInfoFor turns "recording_2025-01-02_15-04-05.mp4" into a readable
// label plus a size string.
func mediaInfoFor(e os.DirEntry) MediaInfo {
	name := e.Name()
	display := strings.TrimSuffix(name, filepath.Ext(name))
	display = strings.ReplaceAll(display, "_", " ")

	var size string
	if fi, err := e.Info(); err == nil {
		size = humanSize(fi.Size())
	}
	return MediaInfo{Filename: name, DisplayName: display, Size: size}
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(n)/float64(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
