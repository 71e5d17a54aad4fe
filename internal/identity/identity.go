package identity

import "strings"

// Identity is the authentication state of a device session: anonymous or bound to an account.
type Identity struct {
	accountID string
}

// Anonymous is the signed-out identity.
func Anonymous() Identity {
	return Identity{}
}

// Account binds the session to accountID. A blank id is treated as anonymous.
func Account(accountID string) Identity {
	return Identity{accountID: strings.TrimSpace(accountID)}
}

func (i Identity) IsAnonymous() bool {
	return i.accountID == ""
}

// AccountID returns the bound account, or "" when anonymous.
func (i Identity) AccountID() string {
	return i.accountID
}

func (i Identity) Equal(other Identity) bool {
	return i.accountID == other.accountID
}

func (i Identity) String() string {
	if i.IsAnonymous() {
		return "anonymous"
	}
	return "account:" + i.accountID
}
