package rewrite_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcheat/internal/rewrite"
)

func TestNewIdentity(testInstance *testing.T) {
	identity, identityError := rewrite.NewIdentity("  Bob ", " bob@example.com\n")
	require.NoError(testInstance, identityError)
	require.Equal(testInstance, rewrite.Identity{Name: "Bob", Email: "bob@example.com"}, identity)
	require.Equal(testInstance, "Bob <bob@example.com>", identity.String())

	_, missingNameError := rewrite.NewIdentity(" ", "bob@example.com")
	require.EqualError(testInstance, missingNameError, "author name is required")

	_, missingEmailError := rewrite.NewIdentity("Bob", "")
	require.EqualError(testInstance, missingEmailError, "author email is required")
}
