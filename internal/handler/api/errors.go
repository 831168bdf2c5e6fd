package api

import (
	"net/http"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/domain/scheduling"
	"bay-scheduler/internal/handler/httperr"
	"bay-scheduler/internal/pkg/errs"
	"bay-scheduler/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// ConflictOnCommitMessage tells the client its snapshot was stale and it should re-query.
const ConflictOnCommitMessage = "conflict_on_commit"

// abortWithUsecaseError maps usecase errors to HTTP statuses. Unknown errors are 500.
func abortWithUsecaseError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrResourceNotFound), errs.Is(err, errs.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
	case errs.Is(err, errs.ErrCommitConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, ConflictOnCommitMessage, nil)
	case errs.Is(err, errs.ErrForceNotConfirmed):
		httperr.AbortWithError(c, http.StatusPreconditionRequired, err, "Force scheduling requires confirm: true", nil)
	case errs.Is(err, commands.ErrBookingNotMovable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking cannot be moved", nil)
	case errs.Is(err, errs.ErrOutsideHours):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Window is outside operating hours", nil)
	case errs.Is(err, errs.ErrDomainValidation), errs.Is(err, commands.ErrUnsupportedKind):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request", err.Error())
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
	}
}

// abortWithBindError covers both binding failures and DTO-to-domain conversion failures.
func abortWithBindError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, booking.ErrInvalidWindow),
		errs.Is(err, booking.ErrInvalidPriority),
		errs.Is(err, scheduling.ErrInvalidInput):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", err.Error())
	default:
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	}
}
