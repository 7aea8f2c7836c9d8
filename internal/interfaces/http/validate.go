package http

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	digitsRe = regexp.MustCompile(`^[0-9]+$`)
	phoneRe  = regexp.MustCompile(`^[0-9]{9,15}$`)
	rucRe    = regexp.MustCompile(`^[0-9]{13}$`)
)

// errInvalidBody el cuerpo no es JSON válido para el DTO.
var errInvalidBody = errors.New("cuerpo inválido")

// ValidationError fallas de validación por campo (nombre json -> mensaje).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validación fallida"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("digits", matches(digitsRe))
	_ = v.RegisterValidation("phone", matches(phoneRe))
	_ = v.RegisterValidation("ruc", matches(rucRe))
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return v
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// strongPassword al menos 8 caracteres, una mayúscula, una minúscula y un dígito o símbolo.
func strongPassword(s string) bool {
	if len([]rune(s)) < 8 {
		return false
	}
	var upper, lower, digitOrSymbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r), !unicode.IsLetter(r):
			digitOrSymbol = true
		}
	}
	return upper && lower && digitOrSymbol
}

// bindBody parsea el JSON del request en dest y valida sus tags.
func bindBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return errInvalidBody
	}
	return validateStruct(dest)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fieldPath(fe)] = validationMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath quita el nombre del struct raíz: "CreateShopRequest.userIds[0]" -> "userIds[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "debe ser un email válido"
	case "min":
		return fmt.Sprintf("debe tener al menos %s", fe.Param())
	case "max":
		return fmt.Sprintf("no puede exceder %s", fe.Param())
	case "gt":
		return fmt.Sprintf("debe ser mayor a %s", fe.Param())
	case "digits":
		return "debe contener solo números"
	case "phone":
		return "debe contener entre 9 y 15 dígitos"
	case "ruc":
		return "debe tener exactamente 13 dígitos"
	case "password":
		return "debe tener al menos 8 caracteres, una mayúscula, una minúscula y un número o símbolo"
	}
	return "es inválido"
}
