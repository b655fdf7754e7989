package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"videohub-service/model"
	"videohub-service/service"
	"videohub-service/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// HTTPError is an error that already knows its response status.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

// ErrorHandler renders the last error a handler attached with c.Error.
// Handlers never write error bodies themselves.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		last := c.Errors.Last()
		status, message := classify(last)
		if last.IsType(gin.ErrorTypeBind) {
			log.Debug("rejected request body",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(utils.RequestIDKey)),
				zap.Error(last.Err))
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(utils.RequestIDKey)),
				zap.Error(last.Err))
		}

		c.JSON(status, model.ErrorResponse{Success: false, Status: status, Message: message})
	}
}

func classify(ginErr *gin.Error) (int, string) {
	err := ginErr.Err

	var httpErr *HTTPError
	var svcErr *service.Error
	switch {
	case ginErr.IsType(gin.ErrorTypeBind):
		return http.StatusBadRequest, bindMessage(err)
	case errors.As(err, &httpErr):
		return httpErr.Status, httpErr.Message
	case errors.Is(err, service.ErrVideoNotFound):
		return http.StatusNotFound, "Video not found"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.As(err, &svcErr) && errors.Is(svcErr.Kind, service.ErrInvalidInput):
		return http.StatusBadRequest, svcErr.Message
	case errors.As(err, &svcErr) && errors.Is(svcErr.Kind, service.ErrForbidden):
		return http.StatusForbidden, svcErr.Message
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	default:
		return http.StatusInternalServerError, "Something went wrong"
	}
}

// bindMessage turns a binding failure into text fit for the client.
func bindMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &fieldErrs):
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "request body is not valid JSON"
	case errors.As(err, &typeErr):
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	default:
		return err.Error()
	}
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	if name != "" {
		name = strings.ToLower(name[:1]) + name[1:]
	}
	if fe.Tag() == "required" {
		return name + " is required"
	}
	return name + " is invalid"
}
