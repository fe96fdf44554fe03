package domain

const (
	namespacePrefix = "cart_"
	guestNamespace  = Namespace(namespacePrefix + "guest")
)

// Namespace is the storage key that scopes a cart to one identity.
type Namespace string

func (n Namespace) String() string {
	return string(n)
}

// Identity is the current principal. The zero value is the guest.
type Identity struct {
	UserID string
}

var Guest = Identity{}

func NewIdentity(userID string) Identity {
	return Identity{UserID: userID}
}

func (i Identity) IsGuest() bool {
	return i.UserID == ""
}

func (i Identity) Namespace() Namespace {
	if i.IsGuest() {
		return guestNamespace
	}
	return Namespace(namespacePrefix + i.UserID)
}

func (i Identity) String() string {
	if i.IsGuest() {
		return "guest"
	}
	return i.UserID
}
