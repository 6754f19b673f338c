package core

import (
	"bytes"
	"encoding/json"
)

// Vendor is a supplier. Catalog items and purchases refer to vendors by
// company name, not by ID.
type Vendor struct {
	ID            int    `json:"id"`
	Company       string `json:"company"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
}

// VendorInput holds the editable vendor fields.
type VendorInput struct {
	Company       string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// UnmarshalJSON also accepts a bare company name, the shape older
// documents used for the vendor list.
func (v *Vendor) UnmarshalJSON(b []byte) error {
	if t := bytes.TrimSpace(b); len(t) > 0 && t[0] == '"' {
		var name string
		if err := json.Unmarshal(t, &name); err != nil {
			return err
		}
		*v = Vendor{Company: name}
		return nil
	}
	type plain Vendor
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*v = Vendor(p)
	return nil
}
