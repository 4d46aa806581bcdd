package controllers

import (
	"errors"
	"net/http"

	"campus-events/utils"

	"github.com/rs/zerolog"
)

// UploadController accepts poster images for the basic info step
type UploadController struct {
	Posters  *utils.PosterStorage
	MaxBytes int64
	Log      *zerolog.Logger
}

func NewUploadController(posters *utils.PosterStorage, maxBytes int64, log *zerolog.Logger) *UploadController {
	return &UploadController{Posters: posters, MaxBytes: maxBytes, Log: log}
}

// UploadPoster stores the multipart "image" field and returns its public URL
func (uc *UploadController) UploadPoster(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, uc.MaxBytes)
	if err := r.ParseMultipartForm(uc.MaxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	file, handler, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image uploaded")
		return
	}
	defer file.Close()

	filename, url, err := uc.Posters.Save(file, handler.Filename)
	if err != nil {
		if errors.Is(err, utils.ErrUnsupportedImage) || errors.Is(err, utils.ErrNotImage) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		uc.Log.Error().Err(err).Str("file", handler.Filename).Msg("failed to store poster")
		writeError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	uc.Log.Info().Str("file", filename).Msg("poster uploaded")
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "url": url})
}
