package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/apu-inti/guardian/pkg/i18n"
	"github.com/apu-inti/guardian/pkg/minigame"
	"github.com/apu-inti/guardian/pkg/path"
	"github.com/apu-inti/guardian/pkg/scene"
	"github.com/apu-inti/guardian/pkg/state"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// statusFor maps domain errors onto HTTP statuses. Anything unrecognised
// is a server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene),
		errors.Is(err, i18n.ErrUnsupportedLanguage),
		errors.Is(err, minigame.ErrInvalidOption),
		errors.Is(err, minigame.ErrUnknownItem):
		return http.StatusBadRequest
	case errors.Is(err, state.ErrSceneLocked),
		errors.Is(err, state.ErrInvalidTransition),
		errors.Is(err, state.ErrWrongScene),
		errors.Is(err, minigame.ErrActionUnavailable),
		errors.Is(err, minigame.ErrAlreadyAnswered),
		errors.Is(err, minigame.ErrNotAnswered),
		errors.Is(err, minigame.ErrNotFinished),
		errors.Is(err, minigame.ErrFinished),
		errors.Is(err, path.ErrAnimating):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeDomainError logs client errors at Warn and everything else at Error.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		writeError(w, logger, status, "Internal server error")
		return
	}
	logger.Warn("Action rejected", "error", err, "status", status)
	writeError(w, logger, status, err.Error())
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
