package server

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/preview"
)

const (
	// maxGenerateBody caps a whole multipart generation request.
	maxGenerateBody = 64 << 20
	// maxFormMemory is how much of the form is held in memory before the
	// rest spills to temporary files.
	maxFormMemory = 32 << 20
)

type generateResponse struct {
	Result  model.GenerationResult `json:"result"`
	Embed   model.Embed            `json:"embed"`
	Warning string                 `json:"warning,omitempty"`
}

type currentResponse struct {
	Result model.GenerationResult `json:"result"`
	HTML   string                 `json:"html"`
}

// handleGenerate handles POST /v1/generate. The body is multipart form data
// with the product fields and one or more "images" files.
func (s *StudioServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxGenerateBody)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	product := model.ProductDraft{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Price:       strings.TrimSpace(r.FormValue("price")),
		Style:       strings.TrimSpace(r.FormValue("style")),
	}

	images, err := readImages(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gen, err := s.studio.Generate(r.Context(), product, images)
	warning, err := warningOf(err)
	if err != nil {
		s.writeStateError(w, r, err)
		return
	}

	s.logger.Info("script generated",
		"generation_id", gen.Result.ID,
		"images", gen.Result.ImageCount,
		"request_id", requestID(r.Context()))
	writeJSON(w, http.StatusOK, generateResponse{Result: gen.Result, Embed: gen.Embed, Warning: warning})
}

func readImages(r *http.Request) ([][]byte, error) {
	files := r.MultipartForm.File["images"]
	images := make([][]byte, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open image %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", fh.Filename, err)
		}
		images = append(images, data)
	}
	return images, nil
}

// handleCurrentGeneration handles GET /v1/generate/current.
func (s *StudioServer) handleCurrentGeneration(w http.ResponseWriter, r *http.Request) {
	result, ok := s.studio.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no video has been generated yet")
		return
	}

	html, err := preview.HTML(result)
	if err != nil {
		s.writeStateError(w, r, fmt.Errorf("render preview: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, currentResponse{Result: result, HTML: html})
}

// handleExportScript handles GET /v1/generate/current/script.
func (s *StudioServer) handleExportScript(w http.ResponseWriter, _ *http.Request) {
	result, ok := s.studio.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no video has been generated yet")
		return
	}

	filename, text := preview.ExportScript(result)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}
