package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/Belphemur/ShowRegistry/internal/apperrors"
	"github.com/Belphemur/ShowRegistry/internal/models"
	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/hlog"
)

// maxBodyBytes bounds request bodies, like the 1 MB default of most JSON body parsers.
const maxBodyBytes = 1 << 20

const msgShowNotFound = "Show not found"

type messageBody struct {
	Msg string `json:"msg"`
}

// decodeShowInput reads the "show" field from a JSON or URL-encoded body.
// Any other content type yields an input without a show.
func decodeShowInput(w http.ResponseWriter, r *http.Request) (models.ShowInput, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return models.ShowInput{}, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return decodeJSONShow(r.Body, mediaType)
	case mediaType == "application/x-www-form-urlencoded":
		return decodeFormShow(r.Body, mediaType)
	default:
		return models.ShowInput{}, nil
	}
}

// decodeJSONShow accepts an object or an array at the top level. Only an object
// can carry a show; numbers are kept as json.Number so they round-trip unchanged.
func decodeJSONShow(body io.Reader, mediaType string) (models.ShowInput, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return models.ShowInput{}, &apperrors.ErrMalformedBody{ContentType: mediaType, Err: err}
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return models.ShowInput{}, nil
	}
	if raw[0] != '{' && raw[0] != '[' {
		return models.ShowInput{}, &apperrors.ErrMalformedBody{
			ContentType: mediaType,
			Err:         errors.New("top-level value must be an object or an array"),
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return models.ShowInput{}, &apperrors.ErrMalformedBody{ContentType: mediaType, Err: err}
	}
	if dec.InputOffset() != int64(len(raw)) {
		return models.ShowInput{}, &apperrors.ErrMalformedBody{ContentType: mediaType, Err: errors.New("trailing data after JSON value")}
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return models.ShowInput{}, nil
	}
	show, present := obj["show"]
	return models.ShowInput{Present: present, Show: show}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRawJSON writes an already encoded JSON document.
func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError maps service errors to HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid  *apperrors.ErrInvalidShow
		tooLarge *http.MaxBytesError
	)

	switch {
	case errors.Is(err, &apperrors.ErrNotFound{}):
		writeJSON(w, http.StatusNotFound, messageBody{Msg: msgShowNotFound})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, messageBody{Msg: invalid.Reason})
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, messageBody{Msg: "Request body too large"})
	case errors.Is(err, &apperrors.ErrMalformedBody{}):
		hlog.FromRequest(r).Debug().Err(err).Msg("Rejected request body")
		writeJSON(w, http.StatusBadRequest, messageBody{Msg: "Malformed request body"})
	default:
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
		writeJSON(w, http.StatusInternalServerError, messageBody{Msg: "Internal server error"})
	}
}
