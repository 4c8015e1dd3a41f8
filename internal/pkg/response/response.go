package response

import (
	"Feedcore/internal/api/dto"
	"Feedcore/internal/pkg/util"
	"Feedcore/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    nil,
	})
}

// Error 将错误映射为业务码，未登记的错误记录日志后按 500 返回且不暴露细节
func Error(c *gin.Context, err error) {
	var (
		ve        validator.ValidationErrors
		fieldErr  *util.ValidationError
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &fieldErr):
		Fail(c, BadRequest, fieldErr.Error())
		return
	case errors.As(err, &ve):
		Fail(c, BadRequest, "参数错误")
		return
	case errors.As(err, &typeErr), errors.As(err, &syntaxErr):
		Fail(c, BadRequest, "Json错误")
		return
	}

	for target, code := range service.ErrorMap {
		if errors.Is(err, target) {
			Fail(c, code, target.Error())
			return
		}
	}
	log.ErrorContext(c.Request.Context(), "unhandled error", "path", c.FullPath(), "err", err)
	Fail(c, InternalServerError, "服务器内部错误")
}
