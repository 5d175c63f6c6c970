package accounts

import "time"

// OwnerAccount and CustomerAccount are the two disjoint account kinds. An
// identity id may appear in at most one of the two tables, never both; the
// directory's primary keys enforce this per table and the resolver flags the
// cross-table case as a data-integrity fault.

type OwnerAccount struct {
	ID        string
	Phone     string
	CreatedAt time.Time
}

type CustomerAccount struct {
	ID        string
	Phone     string
	CreatedAt time.Time
}
