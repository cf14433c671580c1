package numenc

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteger_Encode(t *testing.T) {
	enc, err := NewInteger(DefaultIntegerWidth)
	require.NoError(t, err)

	tests := []struct {
		in   int64
		want string
	}{
		{0, "10000000000"},
		{42, "10000000042"},
		{-1, "09999999999"},
		{-10_000_000_000, "00000000000"},
		{9_999_999_999, "19999999999"},
	}
	for _, tt := range tests {
		got, err := enc.Encode(tt.in)
		require.NoError(t, err, "encode %d", tt.in)
		assert.Equal(t, tt.want, got, "encode %d", tt.in)

		back, err := enc.Decode(got)
		require.NoError(t, err)
		assert.Equal(t, tt.in, back)
	}
}

func TestInteger_DomainEdges(t *testing.T) {
	enc, err := NewInteger(3)
	require.NoError(t, err)

	_, err = enc.Encode(1000)
	assert.True(t, IsDomainError(err))

	_, err = enc.Encode(-1001)
	assert.True(t, IsDomainError(err))

	assert.Equal(t, "0000", enc.Min())
	assert.Equal(t, "1999", enc.Max())

	_, err = enc.Bias(enc.Max(), 1)
	assert.True(t, IsDomainError(err))
	_, err = enc.Bias(enc.Min(), -1)
	assert.True(t, IsDomainError(err))

	next, err := enc.Bias("1041", 1)
	require.NoError(t, err)
	assert.Equal(t, "1042", next)
}

func TestNewInteger_RejectsBadWidth(t *testing.T) {
	_, err := NewInteger(0)
	assert.Error(t, err)
	_, err = NewInteger(MaxIntegerWidth + 1)
	assert.Error(t, err)
}

func TestInteger_EncodeString(t *testing.T) {
	enc, err := NewInteger(DefaultIntegerWidth)
	require.NoError(t, err)

	got, err := enc.EncodeString(" +7 ")
	require.NoError(t, err)
	assert.Equal(t, "10000000007", got)

	_, err = enc.EncodeString("7.5")
	assert.True(t, IsDomainError(err))
}

func TestProperty_IntegerOrderPreserved(t *testing.T) {
	enc, err := NewInteger(DefaultIntegerWidth)
	require.NoError(t, err)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	lo, hi := int64(-10_000_000_000), int64(9_999_999_999)
	properties.Property("a < b implies encode(a) < encode(b)", prop.ForAll(
		func(a, b int64) bool {
			ea, errA := enc.Encode(a)
			eb, errB := enc.Encode(b)
			if errA != nil || errB != nil {
				return false
			}
			switch {
			case a < b:
				return ea < eb
			case a > b:
				return ea > eb
			default:
				return ea == eb
			}
		},
		gen.Int64Range(lo, hi),
		gen.Int64Range(lo, hi),
	))

	properties.Property("decode inverts encode", prop.ForAll(
		func(a int64) bool {
			e, err := enc.Encode(a)
			if err != nil {
				return false
			}
			back, err := enc.Decode(e)
			return err == nil && back == a
		},
		gen.Int64Range(lo, hi),
	))

	properties.TestingRun(t)
}
