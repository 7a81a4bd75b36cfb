package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/copa-samurai/tournament-api/services"
)

type DojoHandler struct {
	dojoService services.DojoService
}

func NewDojoHandler(dojoService services.DojoService) *DojoHandler {
	return &DojoHandler{dojoService: dojoService}
}

func (h *DojoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.DojoInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	dojo, err := h.dojoService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"dojo": dojo}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DojoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	dojo, err := h.dojoService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dojo": dojo}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DojoHandler) List(w http.ResponseWriter, r *http.Request) {
	dojos, err := h.dojoService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dojos": dojos}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DojoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.DojoInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	dojo, err := h.dojoService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dojo": dojo}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DojoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.dojoService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadLogo accepts the raw image body; the content type decides the
// stored extension. Multipart is not needed for a single small file.
func (h *DojoHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		badRequestResponse(w, r, errors.New("logo must be an image"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	dojo, err := h.dojoService.UploadLogo(r.Context(), id, contentType, r.Body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dojo": dojo}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
