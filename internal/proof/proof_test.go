package proof_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/conduit/internal/proof"
)

func TestDone(t *testing.T) {
	t.Parallel()

	assert.True(t, proof.Seal().Valid())
	assert.False(t, proof.Done{}.Valid())
}
