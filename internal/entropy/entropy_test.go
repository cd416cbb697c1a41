package entropy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}

	fresh := New(0)
	assert.NotNil(t, fresh)

	r := rand.New(rand.NewSource(1))
	assert.Same(t, r, OrNew(r))
	assert.NotNil(t, OrNew(nil))
}
