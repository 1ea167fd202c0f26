// Package validation binds request bodies through gin and turns binding
// failures into invalid-input errors.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"auctionhouse/internal/apperrors"
)

const (
	// TagStrongPassword: 6+ letters or digits with a lower case letter, an
	// upper case letter and a digit.
	TagStrongPassword = "strong_password"
	// TagBasicPassword: 6+ characters with a letter and a digit.
	TagBasicPassword = "basic_password"
	// TagMoney: a finite amount with at most two decimals that fits the
	// NUMERIC(14, 2) money columns.
	TagMoney = "money"

	// MoneyLimit is the first value the money columns cannot hold.
	MoneyLimit = 1e12
)

var setupOnce sync.Once

// Setup registers the custom rules on gin's validator. Safe to call often.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation(TagStrongPassword, func(fl validator.FieldLevel) bool {
			return StrongPassword(fl.Field().String())
		})
		_ = v.RegisterValidation(TagBasicPassword, func(fl validator.FieldLevel) bool {
			return BasicPassword(fl.Field().String())
		})
		_ = v.RegisterValidation(TagMoney, func(fl validator.FieldLevel) bool {
			return Money(fl.Field().Float())
		})
	})
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func StrongPassword(s string) bool {
	if len(s) < 6 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			return false
		}
	}
	return lower && upper && digit
}

func BasicPassword(s string) bool {
	if len([]rune(s)) < 6 {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		if unicode.IsLetter(r) {
			letter = true
		}
		if unicode.IsDigit(r) {
			digit = true
		}
	}
	return letter && digit
}

// Money reports whether f can be stored as NUMERIC(14, 2) without rounding.
func Money(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= MoneyLimit {
		return false
	}
	text := strconv.FormatFloat(f, 'f', -1, 64)
	if i := strings.IndexByte(text, '.'); i >= 0 {
		return len(text)-i-1 <= 2
	}
	return true
}

func BindJSON(c *gin.Context, dst any) error {
	Setup()
	return translate(c.ShouldBindJSON(dst))
}

func BindQuery(c *gin.Context, dst any) error {
	Setup()
	return translate(c.ShouldBindQuery(dst))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "malformed request body", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, strings.Join(msgs, "; "), err)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "eqfield":
		return field + " must match " + jsonName(fe.Param())
	case TagStrongPassword:
		return field + " must be at least 6 letters or digits and contain upper case, lower case and a number"
	case TagBasicPassword:
		return field + " must be at least 6 characters and contain letters and numbers"
	case "gtefield":
		return field + " must be at least " + jsonName(fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case TagMoney:
		return field + " must have at most 2 decimals and be below 1000000000000"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// jsonName turns a Go field name used in a cross-field tag into snake case.
func jsonName(goName string) string {
	var b strings.Builder
	for i, r := range goName {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
