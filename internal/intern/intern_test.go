package intern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narwhal-lang/narwhalc/internal/intern"
)

func TestInternStable(t *testing.T) {
	in := intern.New()

	a1 := in.Intern("foo")
	b := in.Intern("bar")
	a2 := in.Intern("foo")

	assert.Equal(t, a1, a2, "interning the same string twice must yield the same key")
	assert.NotEqual(t, a1, b)
}

func TestInternResolveRoundTrip(t *testing.T) {
	in := intern.New()
	for _, s := range []string{"alpha", "beta", "gamma", "alpha"} {
		in.Intern(s)
	}

	k := in.Intern("gamma")
	got, ok := in.Resolve(k)
	require.True(t, ok)
	assert.Equal(t, "gamma", got)
}

func TestResolveUnknownKey(t *testing.T) {
	in := intern.New()
	_, ok := in.Resolve(intern.Key(999))
	assert.False(t, ok)
}

func TestZeroKeyNeverProduced(t *testing.T) {
	in := intern.New()
	for i, s := range []string{"a", "b", "c"} {
		k := in.Intern(s)
		assert.NotZero(t, k, "index %d", i)
	}
}
