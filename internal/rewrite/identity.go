package rewrite

import (
	"fmt"
	"strings"
)

const (
	identityNameFieldConstant  = "author name"
	identityEmailFieldConstant = "author email"
	identityRequiredTemplate   = "%s is required"
	identityDisplayTemplate    = "%s <%s>"
)

// Identity is the author and committer identity written into every commit.
type Identity struct {
	Name  string
	Email string
}

// NewIdentity trims and validates the supplied name and email.
func NewIdentity(name string, email string) (Identity, error) {
	identity := Identity{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if validationError := identity.Validate(); validationError != nil {
		return Identity{}, validationError
	}
	return identity, nil
}

// Validate reports missing identity fields.
func (identity Identity) Validate() error {
	if len(strings.TrimSpace(identity.Name)) == 0 {
		return fmt.Errorf(identityRequiredTemplate, identityNameFieldConstant)
	}
	if len(strings.TrimSpace(identity.Email)) == 0 {
		return fmt.Errorf(identityRequiredTemplate, identityEmailFieldConstant)
	}
	return nil
}

// String renders the identity the way git displays it.
func (identity Identity) String() string {
	return fmt.Sprintf(identityDisplayTemplate, identity.Name, identity.Email)
}
