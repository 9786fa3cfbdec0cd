package controllers

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// hhmmRe matches 24h clock times like "8:00" or "18:30".
var hhmmRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

var jours = map[string]bool{
	"lundi":    true,
	"mardi":    true,
	"mercredi": true,
	"jeudi":    true,
	"vendredi": true,
	"samedi":   true,
	"dimanche": true,
}

// Custom validators for the agency opening-hours payload, registered on
// gin's shared validator engine. Field errors are reported under the
// json name of the field, not the Go identifier.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmRe.MatchString(fl.Field().String())
	})
	v.RegisterValidation("jour", func(fl validator.FieldLevel) bool {
		return jours[fl.Field().String()]
	})
}
