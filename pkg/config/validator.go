package config

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// pythonVersionPattern matches major.minor interpreter versions such as
// "3.12". Bare majors ("3"), patch releases ("3.12.1"), and wildcard forms
// ("3.x") are rejected so interpreter discovery always works with an exact
// major.minor pair.
var pythonVersionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("python_version", validatePythonVersion)
}

// validatePythonVersion validates the major.minor interpreter version format
func validatePythonVersion(fl validator.FieldLevel) bool {
	version := fl.Field().String()
	if version == "" {
		return false
	}
	return pythonVersionPattern.MatchString(version)
}
