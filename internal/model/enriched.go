package model

// Enriched is a Transaction extended with catalog attributes.
//
// Match is true iff all three catalog fields were resolved for the numeric
// product identifier; otherwise the three pointers are nil.
type Enriched struct {
	Transaction

	Category *string
	Brand    *string
	Rating   *float64
	Match    bool
}
