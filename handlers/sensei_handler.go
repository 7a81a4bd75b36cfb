package handlers

import (
	"net/http"

	"github.com/copa-samurai/tournament-api/services"
)

type SenseiHandler struct {
	senseiService services.SenseiService
}

func NewSenseiHandler(senseiService services.SenseiService) *SenseiHandler {
	return &SenseiHandler{senseiService: senseiService}
}

func (h *SenseiHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.SenseiInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sensei, err := h.senseiService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"sensei": sensei}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SenseiHandler) List(w http.ResponseWriter, r *http.Request) {
	senseis, err := h.senseiService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"senseis": senseis}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SenseiHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SenseiInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sensei, err := h.senseiService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"sensei": sensei}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SenseiHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.senseiService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
