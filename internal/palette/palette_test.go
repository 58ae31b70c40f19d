package palette

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int
	}{
		{name: "jan 1", in: date(2025, time.January, 1), want: 1},
		{name: "feb 1", in: date(2025, time.February, 1), want: 32},
		{name: "dec 31 common year", in: date(2025, time.December, 31), want: 365},
		{name: "leap day", in: date(2024, time.February, 29), want: 60},
		{name: "dec 31 leap year", in: date(2024, time.December, 31), want: 366},
		{name: "midnight", in: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), want: 60},
		{name: "last nanosecond", in: time.Date(2025, time.March, 1, 23, 59, 59, 999999999, time.UTC), want: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayOfYear(tt.in))
		})
	}
}

func TestDayOfYearIgnoresDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 is the spring-forward day and 2024-11-03 the fall-back day.
	spring := []time.Time{
		time.Date(2024, time.March, 10, 0, 30, 0, 0, ny),
		time.Date(2024, time.March, 10, 3, 30, 0, 0, ny),
		time.Date(2024, time.March, 10, 23, 59, 0, 0, ny),
	}
	for _, ts := range spring {
		assert.Equal(t, 70, DayOfYear(ts), ts.String())
	}

	fall := []time.Time{
		time.Date(2024, time.November, 3, 0, 30, 0, 0, ny),
		time.Date(2024, time.November, 3, 1, 30, 0, 0, ny),
		time.Date(2024, time.November, 3, 23, 59, 0, 0, ny),
	}
	for _, ts := range fall {
		assert.Equal(t, 308, DayOfYear(ts), ts.String())
	}
}

func TestDayOfYearUsesCallerZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2025, time.December, 31, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, 365, DayOfYear(instant))
	assert.Equal(t, 1, DayOfYear(instant.In(tokyo)))
}

func TestSelectForDateScenarios(t *testing.T) {
	table := Default()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "day 1", in: date(2024, time.January, 1), want: "west-side"},
		{name: "day 2", in: date(2024, time.January, 2), want: "parrot-blue"},
		{name: "day 3", in: date(2024, time.January, 3), want: "teal"},
		{name: "day 4", in: date(2024, time.January, 4), want: "outrageous-orange"},
		{name: "day 5", in: date(2024, time.January, 5), want: "west-side"},
		{name: "day 366", in: date(2024, time.December, 31), want: "parrot-blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectForDate(tt.in, table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestSelectForDateDeterministic(t *testing.T) {
	table := Default()
	morning := time.Date(2025, time.June, 14, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.June, 14, 22, 0, 0, 0, time.UTC)

	first, err := SelectForDate(morning, table)
	require.NoError(t, err)
	second, err := SelectForDate(morning, table)
	require.NoError(t, err)
	third, err := SelectForDate(evening, table)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
}

func TestSelectForDateAlwaysReturnsTableMember(t *testing.T) {
	tables := []Table{
		Default()[:1],
		Default()[:3],
		Default(),
		append(Default(), Entry{Name: "black", Hex: "#000000", RGB: "0, 0, 0"}),
	}

	for _, table := range tables {
		day := date(2023, time.January, 1)
		for i := 0; i < 800; i++ {
			got, err := SelectForDate(day, table)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, table.Index(got.Name), 0)
			day = day.AddDate(0, 0, 1)
		}
	}
}

func TestSelectForDateCyclesInTableOrder(t *testing.T) {
	table := Default()
	n := len(table)

	// Start on a day whose index is 0 and walk n days inside the same year.
	for _, start := range []time.Time{
		date(2025, time.January, 4),
		date(2025, time.May, 8),
		date(2024, time.December, 25),
	} {
		idx, err := IndexForDate(start, n)
		require.NoError(t, err)
		require.Equal(t, 0, idx, start.String())

		for i := 0; i < n; i++ {
			got, err := SelectForDate(start.AddDate(0, 0, i), table)
			require.NoError(t, err)
			assert.Equal(t, table[i], got)
		}

		wrapped, err := SelectForDate(start.AddDate(0, 0, n), table)
		if start.AddDate(0, 0, n).Year() == start.Year() {
			require.NoError(t, err)
			assert.Equal(t, table[0], wrapped)
		}
	}
}

func TestYearBoundaryContinuity(t *testing.T) {
	// The index advances by one across Dec 31 -> Jan 1 when the table length
	// divides the length of the year being left.
	cases := []struct {
		name string
		n    int
		from int
	}{
		{name: "common year, five entries", n: 5, from: 2023},
		{name: "leap year, six entries", n: 6, from: 2024},
		{name: "single entry", n: 1, from: 2025},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			last, err := IndexForDate(date(tc.from, time.December, 31), tc.n)
			require.NoError(t, err)
			first, err := IndexForDate(date(tc.from+1, time.January, 1), tc.n)
			require.NoError(t, err)
			assert.Equal(t, (last+1)%tc.n, first)
		})
	}
}

func TestDefaultTableRepeatsAcrossYearBoundary(t *testing.T) {
	table := Default()

	dec31, err := SelectForDate(date(2025, time.December, 31), table)
	require.NoError(t, err)
	jan1, err := SelectForDate(date(2026, time.January, 1), table)
	require.NoError(t, err)

	// 365 % 4 == 1 % 4, so the four-entry table shows west-side twice.
	assert.Equal(t, "west-side", dec31.Name)
	assert.Equal(t, dec31, jan1)
}

func TestSelectForDateEmptyTable(t *testing.T) {
	for _, d := range []time.Time{date(2024, time.January, 1), date(1999, time.July, 4), {}} {
		_, err := SelectForDate(d, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))

		_, err = SelectForDate(d, Table{})
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	table := Default()
	table[0].Name = "mutated"

	assert.Equal(t, "outrageous-orange", Default()[0].Name)
}

func TestLookup(t *testing.T) {
	table := Default()

	tests := []struct {
		query string
		want  string
	}{
		{query: "teal", want: "teal"},
		{query: "  West-Side ", want: "west-side"},
		{query: "blue", want: "parrot-blue"},
		{query: "orange", want: "outrageous-orange"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := table.Lookup(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}

	_, err := table.Lookup("zzz")
	assert.ErrorIs(t, err, ErrUnknownTheme)

	_, err = table.Lookup("")
	assert.ErrorIs(t, err, ErrUnknownTheme)
}
