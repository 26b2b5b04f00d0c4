package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/stacking-tournament/export"
	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/results"
	"github.com/Dosada05/stacking-tournament/services"
)

type ResultsHandler struct {
	resultsService services.ResultsService
	exportService  services.ExportService
}

func NewResultsHandler(rs services.ResultsService, es services.ExportService) *ResultsHandler {
	return &ResultsHandler{
		resultsService: rs,
		exportService:  es,
	}
}

func resultsOptions(r *http.Request) results.Options {
	query := r.URL.Query()
	return results.Options{
		Classification: models.Classification(strings.ToLower(strings.TrimSpace(query.Get("classification")))),
		Round:          models.Round(strings.ToLower(strings.TrimSpace(query.Get("round")))),
	}
}

func eventParams(r *http.Request) (string, string, error) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		return "", "", err
	}
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		return "", "", err
	}
	return tournamentID, eventID, nil
}

// ResultsHandler обрабатывает GET /tournaments/{tournamentID}/events/{eventID}/results.
// С ?bracket= возвращает одну таблицу, без него - таблицы всех возрастных групп.
func (h *ResultsHandler) ResultsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, eventID, err := eventParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	opts := resultsOptions(r)

	if bracketID := strings.TrimSpace(r.URL.Query().Get("bracket")); bracketID != "" {
		view, err := h.resultsService.Leaderboard(r.Context(), tournamentID, eventID, bracketID, opts)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": view}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	view, err := h.resultsService.EventBoards(r.Context(), tournamentID, eventID, opts)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// FinalistsHandler обрабатывает GET .../events/{eventID}/brackets/{bracketID}/finalists
func (h *ResultsHandler) FinalistsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, eventID, err := eventParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	bracketID, err := getIDFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.resultsService.Finalists(r.Context(), tournamentID, eventID, bracketID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"finalists": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportHandler обрабатывает GET .../events/{eventID}/export?format=xlsx|pdf
func (h *ResultsHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, eventID, err := eventParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Рендерим в буфер, чтобы ошибка ещё могла уйти JSON-ответом.
	var buf bytes.Buffer
	if err := h.exportService.Render(r.Context(), &buf, tournamentID, eventID, format, resultsOptions(r)); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", tournamentID, eventID, format.Ext())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// PublishHandler обрабатывает POST .../events/{eventID}/publish?format=
func (h *ResultsHandler) PublishHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, eventID, err := eventParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.exportService.Publish(r.Context(), tournamentID, eventID, format)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"publication": map[string]string{
		"key": res.Key,
		"url": res.Location,
	}}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
