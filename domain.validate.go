package bookstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Client facing messages of the validation failures.
const (
	MalformedInputMessage = "Illegal, missing, or malformed input"
	PriceFormatMessage    = "Price must have exactly two decimal points."
	UserIDFormatMessage   = "Invalid email format for userId"
	StateFormatMessage    = "Invalid state format. Must be a 2-letter US state abbreviation"
	ISBNMismatchMessage   = "ISBN in the request body does not match the book's ISBN."
	MissingUserIDMessage  = "Missing userId query parameter"
)

var (
	priceRegex  = regexp.MustCompile(`^[+-]?[0-9]+\.[0-9]{2}$`)
	userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	usStates = map[string]struct{}{
		"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
		"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
		"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
		"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
		"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
	}

	// tagMessages maps each custom validation tag to its client message.
	tagMessages = map[string]string{
		"price2dp": PriceFormatMessage,
		"userid":   UserIDFormatMessage,
		"usstate":  StateFormatMessage,
	}
)

// ValidationError is a client caused failure. Its message is sent as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError formats a new ValidationError.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// MissingFieldError builds the error reported for a missing or empty required field.
func MissingFieldError(field string) *ValidationError {
	return NewValidationError("%s is a mandatory field and cannot be empty.", field)
}

// FirstMissingField returns the first field of required, in the given
// order, which is absent from fields or holds an empty value.
func FirstMissingField(fields map[string]interface{}, required []string) (string, bool) {
	for _, name := range required {
		v, ok := fields[name]
		if !ok || isEmpty(v) {
			return name, true
		}
	}
	return "", false
}

// isEmpty reports whether a decoded JSON value counts as not provided:
// null, empty string, zero number, false, empty list or object.
func isEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		return err == nil && d.IsZero()
	case float64:
		return val == 0
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	}
	return false
}

// CheckBodyISBN rejects a body ISBN which is not exactly the path one.
// A body without ISBN is accepted.
func CheckBodyISBN(fields map[string]interface{}, isbn string) error {
	v, ok := fields["ISBN"]
	if !ok {
		return nil
	}
	if s, isString := v.(string); !isString || s != isbn {
		return &ValidationError{Message: ISBNMismatchMessage}
	}
	return nil
}

// ValidatePrice checks the price text has exactly two fractional digits.
func ValidatePrice(raw string) error {
	if !priceRegex.MatchString(raw) {
		return &ValidationError{Message: PriceFormatMessage}
	}
	return nil
}

// ValidateUserID checks the user id is a syntactically valid email.
func ValidateUserID(userID string) error {
	if !userIDRegex.MatchString(userID) {
		return &ValidationError{Message: UserIDFormatMessage}
	}
	return nil
}

// ValidateState checks the state is one of the 50 US abbreviations, ignoring case.
func ValidateState(state string) error {
	if _, ok := usStates[strings.ToUpper(state)]; !ok {
		return &ValidationError{Message: StateFormatMessage}
	}
	return nil
}

// Validator decodes request payloads and runs the format checks.
type Validator struct {
	validate *validator.Validate
}

// NewValidator provides a Validator with the custom tags registered.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// a Price is validated on the text it was decoded from.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if p, ok := field.Interface().(Price); ok {
			return p.Raw()
		}
		return nil
	}, Price{})

	_ = v.RegisterValidation("price2dp", func(fl validator.FieldLevel) bool {
		return ValidatePrice(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("userid", func(fl validator.FieldLevel) bool {
		return ValidateUserID(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("usstate", func(fl validator.FieldLevel) bool {
		return ValidateState(fl.Field().String()) == nil
	})

	return &Validator{validate: v}
}

// Struct runs the format checks of s. Only the first failing
// field, in declaration order, is reported.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	if msg, ok := tagMessages[verrs[0].Tag()]; ok {
		return &ValidationError{Message: msg}
	}
	return NewValidationError("%s is invalid.", verrs[0].Field())
}

// Payload is a request body whose required fields were checked but
// which is not yet decoded into its typed form.
type Payload struct {
	Fields map[string]interface{}
	body   []byte
}

// Read reads a JSON object from r and checks the required fields in order.
func (v *Validator) Read(r io.Reader, required []string) (*Payload, error) {
	if r == nil {
		return nil, &ValidationError{Message: MalformedInputMessage}
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &ValidationError{Message: MalformedInputMessage}
	}

	var fields map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err = dec.Decode(&fields); err != nil {
		return nil, &ValidationError{Message: MalformedInputMessage}
	}

	p := &Payload{Fields: fields, body: body}
	if field, missing := FirstMissingField(fields, required); missing {
		return p, MissingFieldError(field)
	}
	return p, nil
}

// Bind decodes the payload into dst then runs the format checks.
func (v *Validator) Bind(p *Payload, dst interface{}) error {
	if err := json.Unmarshal(p.body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return NewValidationError("%s has an invalid type.", typeErr.Field)
		}
		return &ValidationError{Message: MalformedInputMessage}
	}
	return v.Struct(dst)
}

// Decode is Read followed by Bind. The raw fields are returned so
// callers can inspect what was really sent.
func (v *Validator) Decode(r io.Reader, required []string, dst interface{}) (map[string]interface{}, error) {
	p, err := v.Read(r, required)
	if err != nil {
		if p == nil {
			return nil, err
		}
		return p.Fields, err
	}
	return p.Fields, v.Bind(p, dst)
}
