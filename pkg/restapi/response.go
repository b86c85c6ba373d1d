package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vod-service/pkg/errno"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Failed 失败响应，根据错误码映射HTTP状态
func Failed(ctx *gin.Context, err error) {
	var e *errno.Errno
	if !errors.As(err, &e) {
		ctx.JSON(http.StatusInternalServerError, Response{
			Code:    errno.ErrInternalServer.Code,
			Message: err.Error(),
		})
		return
	}
	ctx.JSON(httpStatus(e), Response{Code: e.Code, Message: e.Message})
}

// FailedWithMessage 带自定义消息的失败响应
func FailedWithMessage(ctx *gin.Context, e *errno.Errno, message string) {
	if message == "" {
		message = e.Message
	}
	ctx.JSON(httpStatus(e), Response{Code: e.Code, Message: message})
}

func httpStatus(e *errno.Errno) int {
	switch e {
	case errno.ErrInvalidParam, errno.ErrMissingParam, errno.ErrUploadError,
		errno.ErrChunkMissing, errno.ErrMergeInProgress, errno.ErrPathRejected:
		return http.StatusBadRequest
	case errno.ErrNotFound, errno.ErrVideoNotFound, errno.ErrStreamNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
