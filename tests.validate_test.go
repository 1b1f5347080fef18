package bookstore

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstMissingField(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		required []string
		missing  string
		found    bool
	}{
		{"all present", `{"a":"x","b":1,"c":true}`, []string{"a", "b", "c"}, "", false},
		{"absent field", `{"a":"x","c":true}`, []string{"a", "b", "c"}, "b", true},
		{"empty string", `{"a":"","b":""}`, []string{"a", "b"}, "a", true},
		{"null value", `{"a":null}`, []string{"a"}, "a", true},
		{"zero number", `{"a":0.00}`, []string{"a"}, "a", true},
		{"false value", `{"a":false}`, []string{"a"}, "a", true},
		{"empty list", `{"a":[]}`, []string{"a"}, "a", true},
		{"empty object", `{"a":{}}`, []string{"a"}, "a", true},
		{"declared order wins", `{"c":"x"}`, []string{"b", "a"}, "b", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var fields map[string]interface{}
			dec := json.NewDecoder(strings.NewReader(tc.payload))
			dec.UseNumber()
			require.NoError(t, dec.Decode(&fields))
			missing, found := FirstMissingField(fields, tc.required)
			assert.Equal(t, tc.found, found)
			assert.Equal(t, tc.missing, missing)
		})
	}
}

func TestValidatePrice(t *testing.T) {
	valid := []string{"19.99", "20.10", "0.50", "-1.00", "+3.25", "1000000.00"}
	invalid := []string{"19.999", "20", "20.1", "19.", ".99", "abc", "", "1e2", "19,99"}
	for _, p := range valid {
		assert.NoError(t, ValidatePrice(p), p)
	}
	for _, p := range invalid {
		assert.EqualError(t, ValidatePrice(p), PriceFormatMessage, p)
	}

	// a leading plus sign is accepted and dropped from the stored amount.
	assert.NoError(t, ValidatePrice("+19.99"))
	assert.Equal(t, "19.99", MustPrice("+19.99").String())
	data, err := json.Marshal(MustPrice("+19.99"))
	require.NoError(t, err)
	assert.Equal(t, "19.99", string(data))
}

func TestCheckBodyISBN(t *testing.T) {
	testCases := []struct {
		name   string
		fields map[string]interface{}
		valid  bool
	}{
		{"absent", map[string]interface{}{"title": "t"}, true},
		{"same", map[string]interface{}{"ISBN": "978-0321815736"}, true},
		{"different", map[string]interface{}{"ISBN": "1111111111"}, false},
		{"null", map[string]interface{}{"ISBN": nil}, false},
		{"number", map[string]interface{}{"ISBN": json.Number("9780321815736")}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckBodyISBN(tc.fields, "978-0321815736")
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, ISBNMismatchMessage)
		})
	}
}

func TestValidateUserID(t *testing.T) {
	valid := []string{"starlord2002@gmail.com", "a.b+c@sub.domain.io", "x_y%z@d-e.org"}
	invalid := []string{"starlord", "a@b", "@b.io", "a@.io", "a b@c.io", "a@b.c"}
	for _, u := range valid {
		assert.NoError(t, ValidateUserID(u), u)
	}
	for _, u := range invalid {
		assert.EqualError(t, ValidateUserID(u), UserIDFormatMessage, u)
	}
}

func TestValidateState(t *testing.T) {
	for _, s := range []string{"CA", "ca", "Ny", "WY"} {
		assert.NoError(t, ValidateState(s), s)
	}
	for _, s := range []string{"ZZ", "DC", "C", "CAL", ""} {
		assert.EqualError(t, ValidateState(s), StateFormatMessage, s)
	}
}

func TestValidatorDecode(t *testing.T) {
	v := NewValidator()

	t.Run("keeps raw fields", func(t *testing.T) {
		var book Book
		fields, err := v.Decode(strings.NewReader(`{"ISBN":"1","title":"t","Author":"a","description":"d",
			"genre":"g","price":"12.30","quantity":2,"extra":"ignored"}`), BookCreateFields, &book)
		require.NoError(t, err)
		assert.Equal(t, "ignored", fields["extra"])
		assert.Equal(t, "12.30", book.Price.Raw())
		assert.Equal(t, "12.30", book.Price.String())
		assert.Equal(t, 2, book.Quantity)
	})

	t.Run("nil body", func(t *testing.T) {
		var book Book
		_, err := v.Decode(nil, BookCreateFields, &book)
		assert.EqualError(t, err, MalformedInputMessage)
	})

	t.Run("empty body", func(t *testing.T) {
		var book Book
		_, err := v.Decode(strings.NewReader(""), BookCreateFields, &book)
		assert.EqualError(t, err, MalformedInputMessage)
	})

	t.Run("required before type", func(t *testing.T) {
		var c CustomerRequest
		_, err := v.Decode(strings.NewReader(`{"userId":12}`), CustomerFields, &c)
		assert.EqualError(t, err, "name is a mandatory field and cannot be empty.")
	})

	t.Run("read then bind", func(t *testing.T) {
		p, err := v.Read(strings.NewReader(`{"title":"t","Author":"a","description":"d",
			"genre":"g","price":20,"quantity":1,"ISBN":"x"}`), BookUpdateFields)
		require.NoError(t, err)
		assert.Equal(t, "x", p.Fields["ISBN"])
		var book Book
		assert.EqualError(t, v.Bind(p, &book), PriceFormatMessage)
	})

	t.Run("type before format", func(t *testing.T) {
		var c CustomerRequest
		_, err := v.Decode(strings.NewReader(`{"userId":12,"name":"n","phone":"p","address":"a",
			"city":"c","state":"ZZ","zipcode":"z"}`), CustomerFields, &c)
		assert.EqualError(t, err, "userId has an invalid type.")
	})
}
