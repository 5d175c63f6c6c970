// Package identity carries the authenticated end-user reference issued by the
// external identity provider. It is passed explicitly into every core
// operation; there is no ambient "current user".
package identity

type Identity struct {
	ID    string
	Phone string
}
