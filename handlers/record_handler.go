package handlers

import (
	"net/http"

	"github.com/Dosada05/stacking-tournament/services"
)

type RecordHandler struct {
	recordService services.RecordService
}

func NewRecordHandler(rs services.RecordService) *RecordHandler {
	return &RecordHandler{recordService: rs}
}

// SubmitHandler обрабатывает POST /tournaments/{tournamentID}/records
func (h *RecordHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SubmitRecordInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rec, err := h.recordService.SubmitRecord(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"record": rec}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler обрабатывает GET /tournaments/{tournamentID}/records?event=
func (h *RecordHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var eventID *string
	if e := r.URL.Query().Get("event"); e != "" {
		eventID = &e
	}

	records, err := h.recordService.ListRecords(r.Context(), tournamentID, eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"records": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
