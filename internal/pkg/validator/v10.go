package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/ecclesia/internal/pkg/strcase"
)

var (
	// Based on NIST 800-63B Guidelines
	rePassword = regexp.MustCompile(`^.{8,72}$`)

	// Intentionally loose: something@something.tld with no whitespace.
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// ValidationError lists the failed rules of a struct keyed by JSON field name.
type ValidationError struct {
	messages map[string]string
	tags     map[string]string
	order    []string
}

func (ve *ValidationError) Error() string {
	if len(ve.messages) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(ve.messages)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field to message map.
func (ve *ValidationError) Values() map[string]string {
	return ve.messages
}

// Tag returns the rule that failed for field, or "" when the field is valid.
func (ve *ValidationError) Tag(field string) string {
	return ve.tags[field]
}

// Fields returns the failing field names in struct declaration order.
func (ve *ValidationError) Fields() []string {
	return ve.order
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerCustom(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a *ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	ve := &ValidationError{
		messages: make(map[string]string, len(validateErrs)),
		tags:     make(map[string]string, len(validateErrs)),
	}
	for _, fe := range validateErrs {
		name := fe.Field()
		if _, seen := ve.tags[name]; seen {
			continue
		}
		ve.order = append(ve.order, name)
		ve.tags[name] = fe.Tag()
		ve.messages[name] = fe.Translate(v.translator)
	}

	return ve
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strcase.ToLowerCamel(fld.Name)
	default:
		return name
	}
}

type rule struct {
	tag  string
	text string
	fn   validator.Func
}

func registerCustom(validate *validator.Validate, trans ut.Translator) error {
	rules := []rule{
		{
			tag:  "password",
			text: "{0} must be 8-72 characters",
			fn: func(fl validator.FieldLevel) bool {
				return rePassword.MatchString(fl.Field().String())
			},
		},
		{
			tag:  "emailaddr",
			text: "{0} must be a valid email address",
			fn: func(fl validator.FieldLevel) bool {
				return reEmail.MatchString(fl.Field().String())
			},
		},
		{
			tag:  "minrunes",
			text: "{0} is too short",
			fn:   minRunes,
		},
	}

	for _, r := range rules {
		if err := validate.RegisterValidation(r.tag, r.fn); err != nil {
			return err
		}

		text := r.text
		err := validate.RegisterTranslation(r.tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(r.tag, text, false)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, err := ut.T(fe.Tag(), fe.Field())
				if err != nil {
					slog.Warn("warning: error translating", "FieldError", fe, "error", err)
					return fe.Error()
				}
				return t
			},
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// minRunes counts characters after trimming surrounding whitespace, e.g. `minrunes=2`.
func minRunes(fl validator.FieldLevel) bool {
	var limit int
	if _, err := fmt.Sscanf(fl.Param(), "%d", &limit); err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= limit
}
