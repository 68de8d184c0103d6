package services

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var indianMobile = regexp.MustCompile(`^(\+?91|0)?[6789]\d{9}$`)

// IsIndianMobile reports whether s is an Indian mobile number. Spaces and
// hyphens are ignored.
func IsIndianMobile(s string) bool {
	compact := strings.NewReplacer(" ", "", "-", "").Replace(s)
	return indianMobile.MatchString(compact)
}

// checkPhone records a violation when phone is set to something other than
// an Indian mobile number. An empty phone is accepted.
func checkPhone(verr *ValidationError, phone *string) {
	if phone != nil && *phone != "" && validate.Var(*phone, "mobile_in") != nil {
		verr.Add("phone", "Invalid Indian mobile number")
	}
}

// RegisterValidations adds the custom tags used by request payloads:
//
//	mobile_in  Indian mobile number
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("mobile_in", func(fl validator.FieldLevel) bool {
		return IsIndianMobile(fl.Field().String())
	})
}

func init() {
	if err := RegisterValidations(validate); err != nil {
		panic(err)
	}
}
