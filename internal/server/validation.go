package server

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var fullWWIDPattern = regexp.MustCompile(`^[a-z0-9]{3,20}@ww$`)

// RegisterValidators adds our custom binding tags to gin's validator.
// Safe to call more than once.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("wwid", func(fl validator.FieldLevel) bool {
		return fullWWIDPattern.MatchString(fl.Field().String())
	})

	_ = v.RegisterValidation("spin", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 4 {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
}
