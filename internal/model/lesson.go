package model

// Lesson is a bookable offering in the catalog. The free-text fields are
// all searchable; Spaces is the remaining capacity and must never go
// negative. The identity is exposed as an opaque string at the API
// boundary even though it is numeric in storage.
//
// Price is derived from PriceCents for JSON responses so that clients see
// a plain decimal amount while arithmetic stays in integer cents.
type Lesson struct {
	ID          string  `json:"id"`
	Subject     string  `json:"subject"`
	Location    string  `json:"location"`
	Instructor  string  `json:"instructor"`
	Description string  `json:"description"`
	Schedule    string  `json:"schedule"`
	PriceCents  uint32  `json:"-"`
	Price       float64 `json:"price"`
	Spaces      int64   `json:"spaces"`
}

// FillPrice recomputes the decimal Price from PriceCents. Repositories
// call it after scanning a row so handlers never do the conversion.
func (l *Lesson) FillPrice() {
	l.Price = float64(l.PriceCents) / 100.0
}
