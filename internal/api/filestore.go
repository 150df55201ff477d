// ABOUTME: File endpoints wrapping the file service

package api

import (
	"net/http"
)

type storeFileRequest struct {
	SourcePath string `json:"source_path"`
}

type storeFileResponse struct {
	Path string `json:"path"`
}

type deleteFileRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleStoreFile(w http.ResponseWriter, r *http.Request) {
	var body storeFileRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.SourcePath == "" {
		writeError(w, http.StatusBadRequest, "source_path is required")
		return
	}

	path, err := s.app.Files.Store(body.SourcePath)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, storeFileResponse{Path: path})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	var body deleteFileRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	if err := s.app.Files.Delete(body.Path); err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
