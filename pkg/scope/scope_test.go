package scope_test

import (
	"testing"

	"github.com/meridianapps/accounts/pkg/scope"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("each scope contributes one bit", func(t *testing.T) {
		require.Equal(t, scope.Mask(0b01), scope.Encode(scope.ProfileRead))
		require.Equal(t, scope.Mask(0b10), scope.Encode(scope.ProfileWrite))
		require.Equal(t, scope.Mask(0b11), scope.Encode(scope.ProfileRead, scope.ProfileWrite))
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		require.Equal(t,
			scope.Encode(scope.ProfileRead),
			scope.Encode(scope.ProfileRead, scope.ProfileRead, scope.ProfileRead),
		)
	})

	t.Run("empty input is the empty mask", func(t *testing.T) {
		require.Equal(t, scope.None, scope.Encode())
	})
}

func TestSatisfies(t *testing.T) {
	t.Parallel()

	read := scope.Encode(scope.ProfileRead)
	write := scope.Encode(scope.ProfileWrite)
	both := scope.Encode(scope.ProfileRead, scope.ProfileWrite)

	t.Run("superset satisfies subset", func(t *testing.T) {
		require.True(t, both.Satisfies(read))
		require.True(t, both.Satisfies(write))
		require.True(t, both.Satisfies(both))
	})

	t.Run("subset does not satisfy superset", func(t *testing.T) {
		require.False(t, read.Satisfies(both))
		require.False(t, write.Satisfies(both))
		require.False(t, read.Satisfies(write))
	})

	t.Run("every mask satisfies None", func(t *testing.T) {
		require.True(t, scope.None.Satisfies(scope.None))
		require.True(t, read.Satisfies(scope.None))
	})
}

func TestParse(t *testing.T) {
	t.Parallel()

	for s := scope.Scope(0); s.Valid(); s++ {
		got, ok := scope.Parse(s.String())
		require.True(t, ok)
		require.Equal(t, s, got)
	}

	_, ok := scope.Parse("admin.write")
	require.False(t, ok)
	_, ok = scope.Parse("")
	require.False(t, ok)
}

func TestMaskScopes(t *testing.T) {
	t.Parallel()

	m := scope.Encode(scope.ProfileWrite, scope.ProfileRead)
	require.Equal(t, []scope.Scope{scope.ProfileRead, scope.ProfileWrite}, m.Scopes())
	require.Nil(t, scope.None.Scopes())
}
