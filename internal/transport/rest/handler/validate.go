package handler

import (
	"carsurvey/internal/service"
	"net/http"
)

// ValidateBMW handles GET /v1/validate/bmw?model=
func ValidateBMW(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Query().Get("model")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"model": model,
		"valid": service.ValidateBMWModel(model),
	})
}
