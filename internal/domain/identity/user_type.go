package identity

// UserType tags the kind of account behind a caller
type UserType string

const (
	UserTypeShop  UserType = "shop"
	UserTypeBuyer UserType = "buyer"
	UserTypeAdmin UserType = "admin"
)

// IsValid checks if the user type is one of the known kinds
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeShop, UserTypeBuyer, UserTypeAdmin:
		return true
	}
	return false
}

// String returns the string representation
func (t UserType) String() string {
	return string(t)
}

// CanManageCatalog reports whether the account may import feeds and see partner views
func (t UserType) CanManageCatalog() bool {
	return t == UserTypeShop
}

// CanPlaceOrders reports whether the account may build a basket and submit orders
func (t UserType) CanPlaceOrders() bool {
	return t.IsValid()
}

// ParseUserType converts a raw string into a UserType, defaulting unknown values to buyer
func ParseUserType(s string) UserType {
	t := UserType(s)
	if !t.IsValid() {
		return UserTypeBuyer
	}
	return t
}
