package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voicy/errors"
)

// RespondWithError aborts with err's status and JSON body. Errors that are
// not AppErrors become INTERNAL_ERROR.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK writes an empty 200; the Bot API ignores webhook reply bodies.
func RespondOK(c *gin.Context) {
	c.Status(http.StatusOK)
}
