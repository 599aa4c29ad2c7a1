package converter

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/medbridge-ai/notefhir/pkg/common/logger"
	"github.com/medbridge-ai/notefhir/pkg/common/models"
)

type HTTPHandler struct {
	service   *Service
	validator *Validator
	maxBody   int64
}

func NewHTTPHandler(service *Service, validator *Validator, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, validator: validator, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/convert", h.handleConvert).Methods(http.MethodPost)
}

func (h *HTTPHandler) handleConvert(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req models.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("invalid conversion payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Convert(r.Context(), req)
	if err != nil {
		logger.Log.WithError(err).Error("failed to convert clinical note")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
