package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "returnpulse/internal/errors"
	"returnpulse/internal/platform"
	"returnpulse/pkg/contracts/domain"
)

// Query parameter names shared by every filtered endpoint.
const (
	ParamPlatform = "platform"
	ParamSKU      = "sku"
	ParamReason   = "reason"
	ParamLimit    = "limit"
)

// RequestValidator binds and validates request input with struct tags.
type RequestValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewRequestValidator creates a validator that reports fields by their json
// names and understands the "dimension" and "filename" tags.
func NewRequestValidator(logger *slog.Logger) *RequestValidator {
	if logger == nil {
		logger = slog.Default()
	}
	v := validator.New()
	if err := registerValidations(v, customValidations); err != nil {
		panic(fmt.Sprintf("request validator: %v", err))
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RequestValidator{
		validator: v,
		logger:    logger.With(slog.String("component", "request_validator")),
	}
}

// customValidation binds a struct tag to its validation function.
type customValidation struct {
	tag string
	fn  validator.Func
}

var customValidations = []customValidation{
	{tag: "dimension", fn: isDimension},
	{tag: "filename", fn: isValidFilename},
}

// registerValidations registers every rule, stopping at the first failure.
// An unregistered tag would make every struct using it fail at runtime.
func registerValidations(v *validator.Validate, rules []customValidation) error {
	for _, rule := range rules {
		if err := v.RegisterValidation(rule.tag, rule.fn); err != nil {
			return fmt.Errorf("register %q validation: %w", rule.tag, err)
		}
	}
	return nil
}

// ValidateStruct validates a struct and returns a VALIDATION_FAILED APIError
// listing every offending field.
func (m *RequestValidator) ValidateStruct(v interface{}) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// BindSelection reads platform, sku and reason from the query string.
// platform may repeat or hold a comma-separated list of registry ids or
// display names.
func (m *RequestValidator) BindSelection(r *http.Request) (domain.FilterSelection, error) {
	q := r.URL.Query()

	var sel domain.FilterSelection
	for _, raw := range q[ParamPlatform] {
		sel.Platforms = append(sel.Platforms, platform.ResolveDisplayNames(strings.Split(raw, ","))...)
	}
	sel.SKU = strings.TrimSpace(q.Get(ParamSKU))
	sel.Reason = strings.TrimSpace(q.Get(ParamReason))

	if err := m.ValidateStruct(sel); err != nil {
		m.logger.DebugContext(r.Context(), "rejected filter selection",
			slog.String("query", r.URL.RawQuery),
			slog.String("error", err.Error()),
		)
		return domain.FilterSelection{}, err
	}
	return sel, nil
}

// ParseLimit reads the limit parameter. Absent means 0, which keeps every row.
func (m *RequestValidator) ParseLimit(r *http.Request, maxLimit int) (int, error) {
	raw := r.URL.Query().Get(ParamLimit)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation(ParamLimit, "limit must be a valid integer")
	}
	if n < 0 || n > maxLimit {
		return 0, apierrors.ErrValidation(ParamLimit, fmt.Sprintf("limit must be between 0 and %d", maxLimit))
	}
	return n, nil
}

// ContentTypeValidator rejects requests whose Content-Type does not start
// with one of contentTypes. GET, HEAD and DELETE pass through.
func ContentTypeValidator(errorHandler *apierrors.ErrorHandler, contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodDelete {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			if contentType == "" {
				errorHandler.HandleError(w, r, apierrors.New(
					http.StatusBadRequest,
					"MISSING_CONTENT_TYPE",
					"Content-Type header is required",
				))
				return
			}

			for _, allowed := range contentTypes {
				if strings.HasPrefix(contentType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusUnsupportedMediaType,
				"UNSUPPORTED_MEDIA_TYPE",
				"Unsupported content type",
				map[string]interface{}{
					"content_type": contentType,
					"allowed":      contentTypes,
				},
			))
		})
	}
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "dimension":
		return fmt.Sprintf("%s must be one of: sku, reason, platform", field)
	case "filename":
		return fmt.Sprintf("%s must be a plain file name", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func isDimension(fl validator.FieldLevel) bool {
	_, err := domain.ParseDimension(fl.Field().String())
	return err == nil
}

// isValidFilename rejects empty names, path separators and traversal.
func isValidFilename(fl validator.FieldLevel) bool {
	filename := fl.Field().String()
	if filename == "" || len(filename) > 255 {
		return false
	}
	return !strings.Contains(filename, "..") && !strings.ContainsAny(filename, `/\`)
}
