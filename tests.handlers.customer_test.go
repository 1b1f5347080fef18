package bookstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

const testCustomerPayload = `{"userId":"starlord2002@gmail.com","name":"Star Lord","phone":"+14155551234",
	"address":"48 Galaxy Rd","address2":"suite 4","city":"Fargo","state":"ND","zipcode":"58102"}`

// TestCreateCustomerHandler ensures api handler can create a customer.
//
//nolint:funlen
func TestCreateCustomerHandler(t *testing.T) {
	mockRepo := &MockCustomerStorage{
		GetByUserIDFunc: notFoundCustomer,
		CreateFunc: func(ctx context.Context, c Customer) (Customer, error) {
			c.ID = 12
			return c, nil
		},
	}
	api := newTestAPIHandler(nil, mockRepo)

	t.Run("should pass: valid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(testCustomerPayload))
		w := httptest.NewRecorder()
		api.CreateCustomer(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/customers/12", w.Header().Get("Location"))
		expected := `{"id":12,"userId":"starlord2002@gmail.com","name":"Star Lord","phone":"+14155551234",
			"address":"48 Galaxy Rd","address2":"suite 4","city":"Fargo","state":"ND","zipcode":"58102"}`
		assert.JSONEq(t, expected, w.Body.String())
	})

	t.Run("should pass: lowercase state and no address2", func(t *testing.T) {
		payload := `{"userId":"a@b.io","name":"n","phone":"p","address":"a","city":"c","state":"ca","zipcode":"z"}`
		req := httptest.NewRequest(http.MethodPost, "/customers/", strings.NewReader(payload))
		w := httptest.NewRecorder()
		api.CreateCustomer(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
		expected := `{"id":12,"userId":"a@b.io","name":"n","phone":"p","address":"a",
			"address2":null,"city":"c","state":"ca","zipcode":"z"}`
		assert.JSONEq(t, expected, w.Body.String())
	})

	t.Run("should fail: invalid payload", func(t *testing.T) {
		testCases := []struct {
			name     string
			payload  string
			expected string
		}{
			{
				name:     "malformed json",
				payload:  `userId=a@b.io`,
				expected: `{"message":"Illegal, missing, or malformed input"}`,
			},
			{
				name:     "missing user id",
				payload:  `{"name":"n","phone":"p","address":"a","city":"c","state":"CA","zipcode":"z"}`,
				expected: `{"message":"userId is a mandatory field and cannot be empty."}`,
			},
			{
				name:     "empty zipcode",
				payload:  `{"userId":"a@b.io","name":"n","phone":"p","address":"a","city":"c","state":"CA","zipcode":""}`,
				expected: `{"message":"zipcode is a mandatory field and cannot be empty."}`,
			},
			{
				name:     "invalid user id",
				payload:  `{"userId":"not-an-email","name":"n","phone":"p","address":"a","city":"c","state":"CA","zipcode":"z"}`,
				expected: `{"message":"Invalid email format for userId"}`,
			},
			{
				name:     "unknown state",
				payload:  `{"userId":"a@b.io","name":"n","phone":"p","address":"a","city":"c","state":"ZZ","zipcode":"z"}`,
				expected: `{"message":"Invalid state format. Must be a 2-letter US state abbreviation"}`,
			},
			{
				name:     "user id checked before state",
				payload:  `{"userId":"bad","name":"n","phone":"p","address":"a","city":"c","state":"ZZ","zipcode":"z"}`,
				expected: `{"message":"Invalid email format for userId"}`,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(tc.payload))
				w := httptest.NewRecorder()
				api.CreateCustomer(w, req)
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.JSONEq(t, tc.expected, w.Body.String())
			})
		}
	})

	t.Run("should fail: user id already exists", func(t *testing.T) {
		mockRepo := &MockCustomerStorage{
			GetByUserIDFunc: func(ctx context.Context, userID string) (Customer, error) {
				return Customer{ID: 1, UserID: userID}, nil
			},
		}
		api := newTestAPIHandler(nil, mockRepo)
		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(testCustomerPayload))
		w := httptest.NewRecorder()
		api.CreateCustomer(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(t, `{"message":"This user ID already exists in the system."}`, w.Body.String())
	})

	t.Run("should fail: storage failure", func(t *testing.T) {
		mockRepo := &MockCustomerStorage{
			GetByUserIDFunc: func(ctx context.Context, userID string) (Customer, error) {
				return Customer{}, errors.New("timeout")
			},
		}
		api := newTestAPIHandler(nil, mockRepo)
		req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(testCustomerPayload))
		w := httptest.NewRecorder()
		api.CreateCustomer(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "An unexpected error occurred.")
	})
}

func TestGetCustomerHandler(t *testing.T) {
	stored := Customer{ID: 7, UserID: "a@b.io", Name: "n", Phone: "p", Address: "a", City: "c", State: "CA", Zipcode: "z"}
	mockRepo := &MockCustomerStorage{
		GetFunc: func(ctx context.Context, id int64) (Customer, error) {
			if id == stored.ID {
				return stored, nil
			}
			return Customer{}, ErrNotFound
		},
	}
	api := newTestAPIHandler(nil, mockRepo)

	testCases := []struct {
		name     string
		id       string
		status   int
		expected string
	}{
		{
			name:   "existing customer",
			id:     "7",
			status: http.StatusOK,
			expected: `{"id":7,"userId":"a@b.io","name":"n","phone":"p","address":"a",
				"address2":null,"city":"c","state":"CA","zipcode":"z"}`,
		},
		{
			name:     "missing customer",
			id:       "999999",
			status:   http.StatusNotFound,
			expected: `{"message":"Customer ID not found"}`,
		},
		{
			name:     "too large id",
			id:       "99999999999999999999999",
			status:   http.StatusNotFound,
			expected: `{"message":"Customer ID not found"}`,
		},
		{
			name:     "non numeric id",
			id:       "abc",
			status:   http.StatusBadRequest,
			expected: `{"message":"Illegal, missing, or malformed input"}`,
		},
		{
			name:     "negative id",
			id:       "-1",
			status:   http.StatusBadRequest,
			expected: `{"message":"Illegal, missing, or malformed input"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/customers/"+tc.id, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tc.id})
			w := httptest.NewRecorder()
			api.GetCustomer(w, req)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.expected, w.Body.String())
		})
	}
}

func TestGetCustomerByUserIDHandler(t *testing.T) {
	stored := Customer{ID: 7, UserID: "a@b.io", Name: "n", Phone: "p", Address: "a", City: "c", State: "CA", Zipcode: "z"}
	mockRepo := &MockCustomerStorage{
		GetByUserIDFunc: func(ctx context.Context, userID string) (Customer, error) {
			if userID == stored.UserID {
				return stored, nil
			}
			return Customer{}, ErrNotFound
		},
	}
	api := newTestAPIHandler(nil, mockRepo)

	testCases := []struct {
		name     string
		target   string
		status   int
		expected string
	}{
		{
			name:   "existing customer",
			target: "/customers?userId=a@b.io",
			status: http.StatusOK,
			expected: `{"id":7,"userId":"a@b.io","name":"n","phone":"p","address":"a",
				"address2":null,"city":"c","state":"CA","zipcode":"z"}`,
		},
		{
			name:     "missing customer",
			target:   "/customers?userId=nobody@b.io",
			status:   http.StatusNotFound,
			expected: `{"message":"User ID not found"}`,
		},
		{
			name:     "missing query parameter",
			target:   "/customers",
			status:   http.StatusBadRequest,
			expected: `{"message":"Missing userId query parameter"}`,
		},
		{
			name:     "invalid user id",
			target:   "/customers?userId=nobody",
			status:   http.StatusBadRequest,
			expected: `{"message":"Invalid email format for userId"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			w := httptest.NewRecorder()
			api.GetCustomerByUserID(w, req)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.expected, w.Body.String())
		})
	}
}
