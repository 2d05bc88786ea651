package domain

import "context"

// Address holds the fields a postal-code directory returns.
type Address struct {
	Street       string
	Neighborhood string
	City         string
}

// IsEmpty reports whether the lookup produced nothing usable.
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.Neighborhood == "" && a.City == ""
}

// AddressLookup resolves a postal code to street, neighborhood and city.
type AddressLookup interface {
	// LookupPostalCode returns empty fields without error when code is not
	// a well-formed 8-digit postal code.
	LookupPostalCode(ctx context.Context, code string) (Address, error)
}

// ConnectivityProbe checks once per batch whether the lookup service can be
// reached at all.
type ConnectivityProbe interface {
	Probe(ctx context.Context) error
}
