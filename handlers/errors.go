package handlers

import (
	"net/http"

	"garagelink/services/apperr"
	"garagelink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error to its HTTP response. Business-rule
// violations carry their kind and message; anything unrecognized is reported
// as Internal without leaking detail.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		utils.GetLogger().Error("internal error", zap.Error(err))
		c.JSON(status, utils.ErrorResponse{
			Kind:    apperr.Kind(err),
			Message: "Internal Server Error",
		})
		return
	}
	c.JSON(status, utils.ErrorResponse{
		Kind:    apperr.Kind(err),
		Message: err.Error(),
	})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, utils.ErrorResponse{
		Kind:    "Validation",
		Message: "invalid request body",
		Details: err.Error(),
	})
}
