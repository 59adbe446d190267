// Package errors holds the API error catalog and its JSON writer.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/autolink/internal/observability/logger"
)

// errorResponse controla exactamente qué campos se envían al cliente.
// "error" se mantiene por compatibilidad con el cliente web existente.
type errorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// WriteError escribe la respuesta HTTP para err. Los 5xx se loguean con la
// causa completa; la causa nunca se envía al cliente.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)
	if appErr.HTTPStatus >= 500 {
		logger.L().Error("request error",
			logger.ErrCode(appErr.Code),
			logger.Err(appErr.Err),
		)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:  appErr.Message,
		Code:   appErr.Code,
		Detail: appErr.Detail,
	})
}
