package domain

// Address is the shipping collaborator's read model for a shopper's default
// shipping destination. An order cannot be created without one.
type Address struct {
	ID         string `json:"id"`
	ShopperID  string `json:"shopperId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Country    string `json:"country"`
	City       string `json:"city"`
	StreetName string `json:"streetName"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone,omitempty"`
	Default    bool   `json:"default"`
}
