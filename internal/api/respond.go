package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"repo-insight/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const invalidBodyMessage = "Invalid request body"

type errorResponse struct {
	Message string `json:"message"`
}

// 校验错误里显示 json 字段名 (repositoryId 而不是 RepositoryID)
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// respondError 把错误转换成 {"message": ...}
func respondError(c *gin.Context, err error) {
	status, msg := common.Resolve(err)
	if status >= http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Message: msg})
}

// respondBindError 只返回第一条校验错误
func respondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Message: validationMessage(err)})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalidBodyMessage
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
