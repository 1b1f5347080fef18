package bookstore

import "context"

// Customer represents a customer entity. The ID is assigned by the
// storage on creation and the UserID (an email) is unique.
type Customer struct {
	ID       int64   `json:"id"`
	UserID   string  `json:"userId"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
	Address2 *string `json:"address2"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Zipcode  string  `json:"zipcode"`
}

// CustomerRequest is the payload accepted on customer creation.
// It has no id field since ids are never chosen by clients.
type CustomerRequest struct {
	UserID   string  `json:"userId" validate:"userid"`
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
	Address2 *string `json:"address2"`
	City     string  `json:"city"`
	State    string  `json:"state" validate:"usstate"`
	Zipcode  string  `json:"zipcode"`
}

// CustomerFields lists the required fields of a customer payload.
var CustomerFields = []string{"userId", "name", "phone", "address", "city", "state", "zipcode"}

// Customer converts the request into a customer without id.
func (cr CustomerRequest) Customer() Customer {
	return Customer{
		UserID:   cr.UserID,
		Name:     cr.Name,
		Phone:    cr.Phone,
		Address:  cr.Address,
		Address2: cr.Address2,
		City:     cr.City,
		State:    cr.State,
		Zipcode:  cr.Zipcode,
	}
}

// CustomerStorage defines possible operations on customer entity.
type CustomerStorage interface {
	Repository[Customer, int64]
	GetByUserID(ctx context.Context, userID string) (Customer, error)
}
