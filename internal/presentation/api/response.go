package api

import (
	"errors"
	"net/http"

	"dreamweaver/internal/domain"

	"github.com/gin-gonic/gin"
)

func success(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}

// failWithError は、エラーの種類に応じたステータスで失敗レスポンスを返します
// data が nil でない場合は失敗時点のセッションも含めます
func failWithError(c *gin.Context, err error, data any) {
	body := gin.H{
		"success": false,
		"error":   err.Error(),
	}
	if stage, ok := domain.StageOf(err); ok {
		body["stage"] = string(stage)
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(errorStatus(err), body)
}

// errorStatus は、エラーをHTTPステータスに対応付けます
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyDreamText), errors.Is(err, domain.ErrUnknownTheme):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrStaleExploration):
		return http.StatusConflict
	}

	if _, ok := domain.StageOf(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
