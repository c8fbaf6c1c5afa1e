package services

import (
	"errors"
	"regexp"
	"sort"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/dto"
)

const (
	msgInvalidEmail   = "invalid email format"
	msgWeakPassword   = "password must be at least 8 characters long and contain an uppercase letter, a lowercase letter, a number and a symbol"
	msgValidationFail = "validation failed"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var sortableColumns = map[string]string{
	"name":       "name",
	"last_name":  "last_name",
	"email":      "email",
	"created_at": "created_at",
}

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// strongPassword requires 8+ characters with at least one upper, lower,
// digit and symbol.
func strongPassword(value interface{}) error {
	value, isNil := validation.Indirect(value)
	s, _ := value.(string)
	if isNil || s == "" {
		return nil
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if len([]rune(s)) < 8 || !upper || !lower || !digit || !symbol {
		return errors.New(msgWeakPassword)
	}
	return nil
}

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("name is required"),
		validation.RuneLength(2, 25).Error("name must be between 2 and 25 characters"),
	}
}

func lastNameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("last name is required"),
		validation.RuneLength(6, 150).Error("last name must be between 6 and 150 characters"),
	}
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("email is required"),
		validation.Length(6, 100).Error("email must be between 6 and 100 characters"),
		is.Email.Error("email must be a valid email address"),
	}
}

func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("password is required"),
		validation.By(strongPassword),
	}
}

type userFields struct {
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func validateNewUser(req *dto.CreateUserRequest) error {
	f := userFields{Name: req.Name, LastName: req.LastName, Email: req.Email, Password: req.Password}
	return toValidationError(validation.ValidateStruct(&f,
		validation.Field(&f.Name, nameRules()...),
		validation.Field(&f.LastName, lastNameRules()...),
		validation.Field(&f.Email, emailRules()...),
		validation.Field(&f.Password, passwordRules()...),
	))
}

type profileFields struct {
	Name     string  `json:"name"`
	LastName string  `json:"last_name"`
	Password *string `json:"password"`
}

func validateProfile(name, lastName string, password *string) error {
	f := profileFields{Name: name, LastName: lastName, Password: password}
	rules := []*validation.FieldRules{
		validation.Field(&f.Name, nameRules()...),
		validation.Field(&f.LastName, lastNameRules()...),
	}
	if password != nil {
		rules = append(rules, validation.Field(&f.Password, passwordRules()...))
	}
	return toValidationError(validation.ValidateStruct(&f, rules...))
}

func validateEmail(email string) error {
	return toValidationError(validation.Validate(email, emailRules()...))
}

func validatePassword(password string) error {
	return toValidationError(validation.Validate(password, passwordRules()...))
}

type addressFields struct {
	Street     string  `json:"street"`
	Number     string  `json:"number"`
	Complement *string `json:"complement"`
	District   string  `json:"district"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	ZipCode    string  `json:"zip_code"`
	Country    string  `json:"country"`
}

func validateAddress(req *dto.CreateAddressRequest) error {
	f := addressFields(*req)
	return toValidationError(validation.ValidateStruct(&f,
		validation.Field(&f.Street, validation.Required.Error("street is required"), validation.RuneLength(0, 255).Error("street must be at most 255 characters")),
		validation.Field(&f.Number, validation.Required.Error("number is required"), validation.RuneLength(0, 10).Error("number must be at most 10 characters")),
		validation.Field(&f.Complement, validation.RuneLength(0, 255).Error("complement must be at most 255 characters")),
		validation.Field(&f.District, validation.Required.Error("district is required"), validation.RuneLength(0, 100).Error("district must be at most 100 characters")),
		validation.Field(&f.City, validation.Required.Error("city is required"), validation.RuneLength(0, 100).Error("city must be at most 100 characters")),
		validation.Field(&f.State, validation.Required.Error("state is required"), validation.RuneLength(0, 50).Error("state must be at most 50 characters")),
		validation.Field(&f.ZipCode, validation.Required.Error("zip code is required"), validation.RuneLength(8, 20).Error("zip code must be between 8 and 20 characters")),
		validation.Field(&f.Country, validation.RuneLength(0, 50).Error("country must be at most 50 characters")),
	))
}

func validatePageOptions(opts dto.PageOptions) error {
	var details []string
	if opts.Page < 1 {
		details = append(details, "page must be at least 1")
	}
	if opts.Limit < 1 || opts.Limit > dto.MaxLimit {
		details = append(details, "limit must be between 1 and 50")
	}
	if opts.Order != dto.OrderASC && opts.Order != dto.OrderDESC {
		details = append(details, "order must be ASC or DESC")
	}
	if opts.OrderBy != "" {
		if _, ok := sortableColumns[opts.OrderBy]; !ok {
			details = append(details, "invalid sort field: "+opts.OrderBy)
		}
	}
	if opts.Status != "" && opts.Status != "true" && opts.Status != "false" {
		details = append(details, "status must be true or false")
	}
	if len(details) > 0 {
		return NewValidationError(details[0], details...)
	}
	return nil
}

// toValidationError flattens ozzo errors into one ValidationError whose
// details list every failed constraint, ordered by field name.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var ie validation.InternalError
	if errors.As(err, &ie) {
		return NewInternalError("validation could not be performed", err)
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError(err.Error(), err.Error())
	}
	keys := make([]string, 0, len(fieldErrs))
	for k := range fieldErrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	details := make([]string, 0, len(keys))
	for _, k := range keys {
		details = append(details, fieldErrs[k].Error())
	}
	return NewValidationError(msgValidationFail, details...)
}
