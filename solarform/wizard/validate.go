package wizard

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)
	// (555) 555-5555, 555-555-5555 or 5555555555, optionally prefixed by +1
	phonePattern = regexp.MustCompile(`^(\+?1\s?)?(\(\d{3}\)|\d{3})[\s.-]?\d{3}[\s.-]?\d{4}$`)
	zipPattern   = regexp.MustCompile(`^\d{5}$`)
)

// ValidateEmail reports whether email looks like a deliverable address.
// The check is case-insensitive.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.ToLower(email))
}

// ValidatePhone reports whether phone is a US phone number.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateZip reports whether zip is a 5-digit US ZIP code.
func ValidateZip(zip string) bool {
	return zipPattern.MatchString(zip)
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("solar_email", func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String())
	})
	validate.RegisterValidation("us_phone", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String())
	})
	validate.RegisterValidation("us_zip", func(fl validator.FieldLevel) bool {
		return ValidateZip(fl.Field().String())
	})
	validate.RegisterValidation("choice", func(fl validator.FieldLevel) bool {
		return isOption(Field(fl.Param()), fl.Field().String())
	})
}

// rule binds a field to the validator tags that gate its step.
type rule struct {
	field Field
	tags  string
}

// Consent is not listed: it is checked by the variant's ConsentPolicy.
var stepRules = map[Step][]rule{
	StepPersonal: {
		{FieldName, "required"},
		{FieldEmail, "required,solar_email"},
	},
	StepContact: {
		{FieldPhone, "required,us_phone"},
		{FieldZip, "required,us_zip"},
	},
	StepRoof: {
		{FieldRoofShade, "required,choice=roofShade"},
		{FieldTimeframe, "required,choice=installationTimeframe"},
	},
	StepProperty: {
		{FieldHomeowner, "required,choice=homeowner"},
		{FieldElectricBill, "required,choice=electricBill"},
	},
}

// formatRules are the on-blur checks; they only run on non-empty values.
var formatRules = map[Field]string{
	FieldEmail: "solar_email",
	FieldPhone: "us_phone",
	FieldZip:   "us_zip",
}

var messages = map[Field]map[string]string{
	FieldName: {
		"required": "Please enter your full name",
	},
	FieldEmail: {
		"required":    "Please enter your email address",
		"solar_email": "Please enter a valid email address (e.g., name@example.com)",
	},
	FieldPhone: {
		"required": "Please enter your phone number",
		"us_phone": "Please enter a valid US phone number (e.g., (555) 555-5555 or 5555555555)",
	},
	FieldZip: {
		"required": "Please enter your ZIP code",
		"us_zip":   "Please enter a valid 5-digit US ZIP code",
	},
	FieldRoofShade: {
		"required": "Please tell us how much shade your roof gets",
	},
	FieldTimeframe: {
		"required": "Please tell us when you are looking to install solar",
	},
	FieldHomeowner: {
		"required": "Please tell us whether you own your home",
	},
	FieldElectricBill: {
		"required": "Please select your average monthly electric bill",
	},
}

const invalidChoiceMessage = "Please choose one of the listed options"

func message(f Field, tag string) string {
	if msg, ok := messages[f][tag]; ok {
		return msg
	}
	if tag == "choice" {
		return invalidChoiceMessage
	}
	return "Please check this field"
}

// checkValue runs the validator tags against a single value and converts the
// first failure into a ValidationError.
func checkValue(f Field, value, tags string) *ValidationError {
	err := validate.Var(value, tags)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: f, Message: message(f, verrs[0].Tag())}
	}
	return &ValidationError{Field: f, Message: message(f, "")}
}

// Check is the on-blur validation of a single field: empty values pass, as do
// fields that have no format constraint. It returns the message to display,
// or "" when the value is acceptable.
func Check(f Field, value string) string {
	if value == "" {
		return ""
	}
	if isEnum(f) {
		if !isOption(f, value) {
			return invalidChoiceMessage
		}
		return ""
	}
	tags, ok := formatRules[f]
	if !ok {
		return ""
	}
	if verr := checkValue(f, value, tags); verr != nil {
		return verr.Message
	}
	return ""
}

func isEnum(f Field) bool {
	return Options(f) != nil
}
