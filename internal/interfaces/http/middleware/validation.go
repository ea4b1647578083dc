package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// SetupValidator makes gin's validator report JSON field names and
// validate decimal.Decimal fields through their float value, so tags such as
// gt=0 apply to amounts and quantities.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
}

// ValidationDetails converts a binding error into per-field details.
// Malformed JSON yields a single "body" entry.
func ValidationDetails(err error) []dto.ValidationDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]dto.ValidationDetail, 0, len(verrs))
		for _, e := range verrs {
			details = append(details, dto.ValidationDetail{
				Field:   fieldPath(e),
				Message: validationMessage(e),
				Tag:     e.Tag(),
			})
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []dto.ValidationDetail{{Field: typeErr.Field, Message: "Has the wrong type", Tag: "type"}}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []dto.ValidationDetail{{Field: "body", Message: "Malformed JSON body", Tag: "json"}}
	}
	return []dto.ValidationDetail{{Field: "body", Message: err.Error()}}
}

// HandleValidationError writes a 400 VALIDATION_ERROR response
func HandleValidationError(c *gin.Context, err error) {
	message := LocalizeError(c, dto.ErrCodeValidation, "Request validation failed")
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		message,
		c.GetString(logger.GinRequestIDKey),
		ValidationDetails(err),
	))
}

// fieldPath drops the top-level struct name: "CreateUserRequest.email" becomes "email"
// and nested lines keep their index, e.g. "lines[1].debit".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func validationMessage(e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "min":
		if isString {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if isString {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "datetime":
		return "Must be a date in the format " + e.Param()
	case "iso4217":
		return "Must be an ISO 4217 currency code"
	case "e164":
		return "Must be a phone number in E.164 format"
	case "nefield":
		return "Must differ from " + strings.ToLower(e.Param())
	case "gtfield", "gtefield":
		return "Must be after " + strings.ToLower(e.Param())
	default:
		return "Invalid value"
	}
}
