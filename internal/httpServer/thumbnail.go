package httpServer

import (
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/nfnt/resize"
)

const thumbWidth = 320

// handleThumbnail serves a downscaled preview of a screenshot. Only image
// files directly in the output directory are eligible.
func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name != filepath.Base(name) {
		http.Error(w, "bad name", http.StatusBadRequest)
		return
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
	default:
		http.Error(w, "not an image", http.StatusBadRequest)
		return
	}

	f, err := os.Open(filepath.Join(s.cfg.OutputDir, name))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		s.log.Warning.Printf("undecodable image %s: %v", name, err)
		http.Error(w, "undecodable image", http.StatusUnprocessableEntity)
		return
	}

	thumb := resize.Resize(thumbWidth, 0, img, resize.Lanczos3)
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "max-age=3600")
	if err := jpeg.Encode(w, thumb, &jpeg.Options{Quality: 80}); err != nil {
		s.log.Warning.Printf("thumbnail encode for %s: %v", name, err)
	}
}
