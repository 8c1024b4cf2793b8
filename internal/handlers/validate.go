package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeJSONBody декодирует тело и проверяет теги validate. Возвращает
// список проблем, пустой если всё в порядке.
func decodeJSONBody(r *http.Request, dst any) []ValidationIssue {
	if !checkContentType(r, "application/json") {
		return []ValidationIssue{{Field: "body", Message: "Content-Type must be application/json"}}
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return []ValidationIssue{jsonIssue(err)}
	}
	// тело - ровно одно JSON-значение
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return []ValidationIssue{{Field: "body", Message: "invalid JSON: unexpected data after body"}}
	}

	if err := validate.Struct(dst); err != nil {
		return validationIssues(err)
	}
	return nil
}

func jsonIssue(err error) ValidationIssue {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return ValidationIssue{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be a %s", jsonTypeName(typeErr.Type)),
		}
	}
	if errors.Is(err, io.EOF) {
		return ValidationIssue{Field: "body", Message: "required"}
	}
	return ValidationIssue{Field: "body", Message: "invalid JSON: " + err.Error()}
}

func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Float64, reflect.Float32:
		return "number"
	default:
		return t.String()
	}
}

func validationIssues(err error) []ValidationIssue {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return []ValidationIssue{{Field: "body", Message: err.Error()}}
	}

	issues := make([]ValidationIssue, 0, len(valErrs))
	for _, ve := range valErrs {
		issues = append(issues, ValidationIssue{
			Field:   ve.Field(),
			Message: formatValidationError(ve),
		})
	}
	return issues
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "uuid":
		return "must be a valid UUID"
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

type numberParam struct {
	name  string
	value *float64
}

// firstInvalidNumber возвращает имя первого параметра, который не разобран
// как конечное число. Порядок params задаёт приоритет: page раньше limit.
func firstInvalidNumber(err error, params ...numberParam) (string, bool) {
	var multi schema.MultiError
	errors.As(err, &multi)

	for _, p := range params {
		if _, failed := multi[p.name]; failed || !isFinite(p.value) {
			return p.name, true
		}
	}
	if err == nil {
		return "", false
	}
	for key := range multi {
		return key, true
	}
	return "query", true
}

func isFinite(f *float64) bool {
	return f == nil || (!math.IsNaN(*f) && !math.IsInf(*f, 0))
}

// truncToInt отбрасывает дробную часть и зажимает значение в диапазон int.
func truncToInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	default:
		return int(math.Trunc(f))
	}
}

// canonicalID приводит UUID в любом регистре к каноническому виду.
// Остальные строки возвращаются как есть.
func canonicalID(id string) string {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}
