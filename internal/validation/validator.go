// Smart Cooking - Recipe Rating and Approval Service
// Copyright 2026 nvtruongops
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nvtruongops/smart-cooking-sub003

// Package validation checks request and service inputs with
// go-playground/validator and reports failures as VALIDATION_ERROR.
//
// Field names in messages are the json names, so a client sees the same key
// it sent:
//
//	type SubmitInput struct {
//	    RecipeID string `json:"recipe_id" validate:"entityid"`
//	    Rating   int    `json:"rating" validate:"stars"`
//	}
//
//	if err := validation.Struct(&in); err != nil {
//	    return nil, err // *apperror.Error, field in Details["field"]
//	}
//
// Besides the stock tags two domain tags are registered:
//
//	stars     integer rating from 1 to 5
//	entityid  non-empty identifier up to 128 bytes without whitespace
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/nvtruongops/smart-cooking-sub003/internal/apperror"
)

const (
	minStars    = 1
	maxStars    = 5
	maxEntityID = 128
)

var (
	instance *validator.Validate
	initOnce sync.Once
)

// Validator returns the shared validator with the domain tags registered.
func Validator() *validator.Validate {
	initOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		mustRegister(v, "stars", isStars)
		mustRegister(v, "entityid", isEntityID)
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func isStars(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := fl.Field().Int()
		return n >= minStars && n <= maxStars
	}
	return false
}

func isEntityID(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	s := fl.Field().String()
	if s == "" || len(s) > maxEntityID {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) < 0
}

// FieldError is one failed constraint.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Struct validates v. It returns nil or an *apperror.Error whose Details
// carry the first failing "field" and, when several fail, all of them
// under "fields".
func Struct(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: a programming error such as a nil pointer.
		return apperror.Validation("", err.Error())
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: describe(fe),
		})
	}
	return toAppError(fields)
}

func toAppError(fields []FieldError) *apperror.Error {
	first := fields[0]
	if len(fields) == 1 {
		return apperror.Validation(first.Field, first.Message).WithDetail("tag", first.Tag)
	}

	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f.Message
	}
	return apperror.Validation(first.Field, strings.Join(msgs, "; ")).WithDetail("fields", fields)
}

// Fields returns the per-field failures carried by an error from Struct,
// or nil when err is not a validation failure.
func Fields(err error) []FieldError {
	appErr := apperror.As(err)
	if appErr == nil || appErr.Kind != apperror.KindValidation {
		return nil
	}
	if list, ok := appErr.Details["fields"].([]FieldError); ok {
		return list
	}
	field, _ := appErr.Details["field"].(string)
	tag, _ := appErr.Details["tag"].(string)
	return []FieldError{{Field: field, Tag: tag, Message: appErr.Message}}
}

func describe(fe validator.FieldError) string {
	name, param := fe.Field(), fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "stars":
		return fmt.Sprintf("%s must be an integer from %d to %d", name, minStars, maxStars)
	case "entityid":
		return fmt.Sprintf("%s must be a non-empty id of at most %d characters without spaces", name, maxEntityID)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, param)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s%s", name, param, unit)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s%s", name, param, unit)
	}
	return fmt.Sprintf("%s failed %s validation", name, fe.Tag())
}
