package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/phrazzld/codegen-api/internal/api/shared"
)

// ConfigHandler serves the front-end JSON configuration file. The file is
// re-read on every request so edits apply without a restart.
type ConfigHandler struct {
	path string
}

// NewConfigHandler creates a ConfigHandler for the file at path.
func NewConfigHandler(path string) *ConfigHandler {
	return &ConfigHandler{path: path}
}

// ServeHTTP handles GET /config.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	raw, err := os.ReadFile(h.path)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Failed to read configuration"
		if errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
			msg = "Configuration not found"
		}
		shared.RespondWithErrorAndLog(w, r, status, msg, err)
		return
	}

	var doc json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Configuration is not valid JSON", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, doc)
}
