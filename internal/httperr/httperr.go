package httperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/domain/errs"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func WriteDetails(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// ======================================================
// MAPEAMENTO DA TAXONOMIA DE ERROS
// ======================================================

// FromError traduz erros de domínio/uso em respostas HTTP. Cada membro da
// taxonomia tem um error_code próprio para a UI montar a mensagem.
func FromError(c *gin.Context, err error) {
	var (
		validation *errs.ValidationError
		notFound   *errs.NotFoundError
		state      *errs.StateError
		incomplete *errs.IncompleteResolutionError
		assignment *errs.AssignmentConflictError
		overlap    *errs.ConflictError
	)

	switch {
	case errors.As(err, &validation):
		Write(c, http.StatusBadRequest, validation.Code, validation.Message)

	case errors.As(err, &notFound):
		Write(c, http.StatusNotFound, notFound.Entity+"_not_found", "Registro não encontrado.")

	case errors.As(err, &state):
		WriteDetails(c, http.StatusConflict, "invalid_state",
			"A ausência já foi decidida. Atualize a página.",
			gin.H{"absence_id": state.AbsenceID, "current": state.Current})

	case errors.As(err, &incomplete):
		WriteDetails(c, http.StatusUnprocessableEntity, "incomplete_resolution",
			"Existem agendamentos afetados sem decisão.",
			gin.H{"missing": incomplete.Missing})

	case errors.As(err, &assignment):
		WriteDetails(c, http.StatusConflict, "assignment_conflict",
			"O barbeiro escolhido não está disponível nesse horário.",
			gin.H{"booking_id": assignment.BookingID, "barber_id": assignment.BarberID, "reason": assignment.Reason})

	case errors.As(err, &overlap):
		WriteDetails(c, http.StatusConflict, "absence_overlap",
			"Já existe uma ausência nesse período.",
			gin.H{"existing_id": overlap.ExistingID})

	case errors.Is(err, context.DeadlineExceeded):
		Write(c, http.StatusGatewayTimeout, "timeout", "Tempo de processamento esgotado.")

	default:
		if code, ok := BusinessCode(err); ok {
			BadRequest(c, code, "Operação inválida.")
			return
		}
		zap.L().Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		Internal(c, "internal_error", "Erro interno.")
	}
}
