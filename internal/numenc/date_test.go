package numenc

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in    string
		want  CalendarDate
		value uint64
	}{
		{"2024-02-29", CalendarDate{Year: 2024, Month: 2, Day: 29}, 60240229},
		{"20240229", CalendarDate{Year: 2024, Month: 2, Day: 29}, 60240229},
		{"2024-02-29T10:30:00Z", CalendarDate{Year: 2024, Month: 2, Day: 29}, 60240229},
		{"-0044-03-15", CalendarDate{Year: 44, Month: 3, Day: 15, BC: true}, 39560315},
		{"9999-12-31", CalendarDate{Year: 9999, Month: 12, Day: 31}, 139991231},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.value, got.Value(), tt.in)

		back, err := DateFromValue(got.Value())
		require.NoError(t, err)
		assert.Equal(t, got, back)
	}
}

func TestParseDate_Rejects(t *testing.T) {
	for _, in := range []string{"", "2023-02-29", "2024-13-01", "2024-00-10", "0000-01-01", "-4000-01-01", "24-1-1", "2024/01/01", "abcd-ef-gh"} {
		_, err := ParseDate(in)
		assert.True(t, IsDomainError(err), in)
	}
}

func TestDateFromValue_Rejects(t *testing.T) {
	_, err := DateFromValue(40000101)
	assert.True(t, IsDomainError(err))
	_, err = DateFromValue(60241340)
	assert.True(t, IsDomainError(err))
}

func TestDateValue_FitsDefaultBits(t *testing.T) {
	b, err := NewBits(DefaultDateBits, DefaultWildcard)
	require.NoError(t, err)
	latest := CalendarDate{Year: 9999, Month: 12, Day: 31}
	_, err = b.Encode(latest.Value())
	require.NoError(t, err)
}

func TestDateString(t *testing.T) {
	assert.Equal(t, "0044-03-15", CalendarDate{Year: 44, Month: 3, Day: 15}.String())
	assert.Equal(t, "-0044-03-15", CalendarDate{Year: 44, Month: 3, Day: 15, BC: true}.String())
}

func calendarOf(tm time.Time) CalendarDate {
	y := tm.Year()
	if y <= 0 {
		return CalendarDate{Year: 1 - y, Month: int(tm.Month()), Day: tm.Day(), BC: true}
	}
	return CalendarDate{Year: y, Month: int(tm.Month()), Day: tm.Day()}
}

func TestProperty_DateValueChronological(t *testing.T) {
	// 3000 BC .. 3000 AD
	origin := time.Date(-2999, time.January, 1, 0, 0, 0, 0, time.UTC)
	span := 6000 * 365

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("earlier day has smaller value", prop.ForAll(
		func(a, b int) bool {
			da := calendarOf(origin.AddDate(0, 0, a))
			db := calendarOf(origin.AddDate(0, 0, b))
			switch {
			case a < b:
				return da.Value() < db.Value()
			case a > b:
				return da.Value() > db.Value()
			default:
				return da.Value() == db.Value()
			}
		},
		gen.IntRange(0, span),
		gen.IntRange(0, span),
	))

	properties.TestingRun(t)
}
