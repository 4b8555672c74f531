package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
)

const internalErrorMessage = "An internal server error occurred."

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		validationErr *service.ValidationError
		constraintErr *repository.ConstraintViolation
		notFoundErr   *service.NotFoundError
		conflictErr   *service.ConflictError
		referenceErr  *service.ReferenceError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationErr.Fields})
	case errors.As(err, &constraintErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": constraintMessage(constraintErr)})
	case errors.Is(err, policy.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
	case errors.Is(err, policy.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action."})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.Is(err, policy.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found."})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": conflictErr.Message})
	case errors.As(err, &referenceErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": referenceErr.Message})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password."})
	case errors.Is(err, service.ErrPasswordRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required."})
	default:
		middleware.LoggerFrom(c, logger).Error("❌ [Handler] Internal server error",
			"error", err,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
	}
}

func constraintMessage(cv *repository.ConstraintViolation) string {
	switch {
	case cv.Kind == repository.ConstraintUnique && cv.Field == "email":
		return "An account with this email already exists."
	case cv.Kind == repository.ConstraintUnique && cv.Field == "make,model,year":
		return "This make, model, and year combination already exists."
	case cv.Kind == repository.ConstraintNotNull && cv.Field != "":
		return "The field '" + cv.Field + "' is required."
	case cv.Kind == repository.ConstraintForeignKey:
		return "Invalid reference provided."
	default:
		return "The request conflicts with existing data."
	}
}

var registerTagName sync.Once

// useJSONFieldNames makes validator report json tag names instead of Go field names
func useJSONFieldNames() {
	registerTagName.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// respondBindError renders gin binding failures as {"errors": {field: [messages]}}
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &validationErrs):
		fields := make(map[string][]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
	case errors.As(err, &typeErr) && typeErr.Field != "":
		c.JSON(http.StatusBadRequest, gin.H{"errors": map[string][]string{
			typeErr.Field: {"Not a valid " + typeErr.Type.String() + "."},
		}})
	default:
		middleware.LoggerFrom(c, logger).Warn("⚠️ [Handler] Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Missing data for required field."
	case "email":
		return "Invalid email format."
	case "max":
		return "Longer than maximum length " + fe.Param() + "."
	case "gte":
		return "Must be greater than or equal to " + fe.Param() + "."
	case "gt":
		return "Must be greater than " + fe.Param() + "."
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	default:
		return "Invalid value."
	}
}
