package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string
	Rule    string
	Param   string
	Message string
}

// BindForm decodes a url-encoded form into out and runs its binding tags.
// On failure it returns one FieldError per rejected field, named after the
// form tag, with a French message ready for a flash.
func BindForm(ctx *gin.Context, out interface{}) ([]FieldError, bool) {
	err := ctx.ShouldBindWith(out, binding.Form)
	if err == nil {
		return nil, true
	}

	return parseBindError(err, out), false
}

func parseBindError(err error, out interface{}) []FieldError {
	rootType := baseStructType(out)

	var validatorError validator.ValidationErrors

	if errors.As(err, &validatorError) {
		fields := make([]FieldError, 0, len(validatorError))

		for _, fieldError := range validatorError {
			field := formNameOf(rootType, fieldError.StructField())
			rule := fieldError.Tag()
			param := fieldError.Param()

			fields = append(fields, FieldError{
				Field:   field,
				Rule:    rule,
				Param:   param,
				Message: validationMessage(field, rule, param),
			})
		}
		return fields
	}

	// malformed body
	return []FieldError{{
		Field:   "form",
		Rule:    "decode",
		Message: "Formulaire invalide.",
	}}
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

func formNameOf(rootType reflect.Type, structField string) string {
	if rootType == nil {
		return structField
	}

	sf, ok := rootType.FieldByName(structField)
	if !ok {
		return structField
	}

	name, _, _ := strings.Cut(sf.Tag.Get("form"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}

	return name
}

var fieldLabels = map[string]string{
	"email":    "L'e-mail",
	"password": "Le mot de passe",
}

func validationMessage(field, rule, param string) string {
	label, ok := fieldLabels[field]
	if !ok {
		label = "Le champ " + field
	}

	switch rule {
	case "required":
		return label + " est obligatoire."
	case "email":
		return label + " doit être une adresse valide."
	case "max":
		return fmt.Sprintf("%s ne doit pas dépasser %s caractères.", label, param)
	case "min":
		return fmt.Sprintf("%s doit contenir au moins %s caractères.", label, param)
	default:
		return fmt.Sprintf("%s est invalide (%s).", label, rule)
	}
}
