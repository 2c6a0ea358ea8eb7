// loader/trip_parser_test.go
package loader

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gewnthar/bikeshare/models"
)

const chicagoStyleCsv = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1423854,2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,Male,1992.0
955915,2017-05-25 18:19:03,2017-05-25 18:45:53,1610,Theater on the Lake,Sheffield Ave & Waveland Ave,Subscriber,Female,1992.0
9031,2017-01-04 08:27:49,2017-01-04 08:34:45,416,May St & Taylor St,Wood St & Taylor St,Customer,,
`

const washingtonStyleCsv = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
1621326,2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
482740,2017-03-06 09:00:27,2017-03-06 09:10:36,609.321,Maryland & Independence Ave SW,Smithsonian-National Mall,Registered
`

func TestParseTripsWithOptionalColumns(t *testing.T) {
	table, err := ParseTrips(strings.NewReader(chicagoStyleCsv))
	require.NoError(t, err)

	assert.True(t, table.HasGender)
	assert.True(t, table.HasBirthYear)
	require.Equal(t, 3, table.Len())

	first := table.Records[0]
	assert.Equal(t, time.Date(2017, 6, 23, 15, 9, 32, 0, time.UTC), first.StartTime)
	assert.Equal(t, 321.0, first.Duration)
	assert.Equal(t, "Wood St & Hubbard St", first.StartStation)
	assert.Equal(t, "Damen Ave & Chicago Ave", first.EndStation)
	assert.Equal(t, "Subscriber", first.UserType)
	assert.Equal(t, "Male", first.Gender)
	assert.Equal(t, 1992, first.BirthYear, "float artifact should truncate to an integer year")
	assert.Equal(t, "june", first.Month)
	assert.Equal(t, "friday", first.DayOfWeek)
	assert.Equal(t, 15, first.Hour)

	// Blank cells in a present optional column stay unset without error.
	third := table.Records[2]
	assert.Equal(t, "", third.Gender)
	assert.Equal(t, 0, third.BirthYear)
}

func TestParseTripsWithoutOptionalColumns(t *testing.T) {
	table, err := ParseTrips(strings.NewReader(washingtonStyleCsv))
	require.NoError(t, err)

	assert.False(t, table.HasGender)
	assert.False(t, table.HasBirthYear)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, 489.066, table.Records[0].Duration)
	assert.Equal(t, "wednesday", table.Records[0].DayOfWeek)
}

func TestParseTripsPreservesInputOrder(t *testing.T) {
	table, err := ParseTrips(strings.NewReader(chicagoStyleCsv))
	require.NoError(t, err)

	starts := make([]string, 0, table.Len())
	for _, record := range table.Records {
		starts = append(starts, record.StartStation)
	}
	assert.Equal(t, []string{"Wood St & Hubbard St", "Theater on the Lake", "May St & Taylor St"}, starts)
}

func TestParseTripsMalformedData(t *testing.T) {
	header := ",Start Time,End Time,Trip Duration,Start Station,End Station,User Type\n"
	goodRow := "1,2017-06-23 15:09:32,2017-06-23 15:14:53,321,A,B,Subscriber\n"

	tests := []struct {
		name   string
		badRow string
		field  string
	}{
		{
			name:   "malformed timestamp",
			badRow: "2,23/06/2017 15:09,2017-06-23 15:14:53,321,A,B,Subscriber\n",
			field:  "Start Time",
		},
		{
			name:   "non-numeric duration",
			badRow: "2,2017-06-23 15:09:32,2017-06-23 15:14:53,abc,A,B,Subscriber\n",
			field:  "Trip Duration",
		},
		{
			name:   "negative duration",
			badRow: "2,2017-06-23 15:09:32,2017-06-23 15:14:53,-5,A,B,Subscriber\n",
			field:  "Trip Duration",
		},
		{
			name:   "empty start station",
			badRow: "2,2017-06-23 15:09:32,2017-06-23 15:14:53,321,,B,Subscriber\n",
			field:  "Start Station",
		},
		{
			name:   "empty end station",
			badRow: "2,2017-06-23 15:09:32,2017-06-23 15:14:53,321,A,,Subscriber\n",
			field:  "End Station",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ParseTrips(strings.NewReader(header + goodRow + tt.badRow))
			require.Error(t, err)
			assert.Nil(t, table, "no partial table on malformed data")

			var formatErr *models.DataFormatError
			require.True(t, errors.As(err, &formatErr))
			assert.Equal(t, 2, formatErr.Record, "bad record identified by data-record number")
			assert.Equal(t, tt.field, formatErr.Field)
		})
	}
}

func TestParseTripsBadBirthYear(t *testing.T) {
	csv := ",Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year\n" +
		"1,2017-06-23 15:09:32,2017-06-23 15:14:53,321,A,B,Subscriber,Male,nineteen92\n"

	_, err := ParseTrips(strings.NewReader(csv))
	var formatErr *models.DataFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "Birth Year", formatErr.Field)
	assert.Equal(t, 1, formatErr.Record)
}

func TestParseTripsEmptyFile(t *testing.T) {
	table, err := ParseTrips(strings.NewReader(",Start Time,End Time,Trip Duration,Start Station,End Station,User Type\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.False(t, table.HasGender)
}
