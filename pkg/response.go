package pkg

import (
	"fmt"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeYAML = "application/yaml"
	ContentTypeText = "text/plain"
)

func WriteResponse(w http.ResponseWriter, contentType, message string) {
	WriteResponseBytes(w, contentType, []byte(message))
}

// WriteResponseBytes writes body with status 200.
func WriteResponseBytes(w http.ResponseWriter, contentType string, body []byte) {
	WriteStatusBytes(w, http.StatusOK, contentType, body)
}

// WriteAttachment writes body as a download named filename.
func WriteAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	WriteResponseBytes(w, contentType, body)
}

// WriteStatusBytes sets the content headers, then writes status and body.
// An empty contentType leaves the header as set by the caller.
func WriteStatusBytes(w http.ResponseWriter, status int, contentType string, body []byte) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)

	if _, err := w.Write(body); err != nil {
		// bodies can be whole exports, log the size only
		log.Errorf("failed to write response (%d bytes): %s", len(body), err)
	}
}
