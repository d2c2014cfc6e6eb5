// Package controllers holds shared HTTP glue for the handler sub-packages.
package controllers

import (
	"errors"
	"net/http"

	"github.com/Gbothemy/taskapp/engine"
	"github.com/Gbothemy/taskapp/utils"
)

// WriteEngineError maps a typed engine error onto an HTTP response. Unknown
// errors become a generic 500 so internal state never leaks.
func WriteEngineError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsValidation(err):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
	case errors.Is(err, engine.ErrNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: err.Error()})
	case errors.Is(err, engine.ErrDuplicateSubmission):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: err.Error()})
	case errors.Is(err, engine.ErrInvalidState):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
	case errors.Is(err, engine.ErrInsufficientFunds):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
	}
}
