package aggregator

import (
	"errors"
	"testing"

	"slotfinder/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(location, date, hour string) models.AppointmentRecord {
	return models.AppointmentRecord{Location: location, Date: date, Hour: hour}
}

func TestAggregateScenario(t *testing.T) {
	rows, err := Aggregate([]models.AppointmentRecord{
		rec("A", "2024-01-01T00:00", "9:0"),
		rec("A", "2024-01-01T00:00", "10:5"),
		rec("B", "2024-01-02T00:00", "8:0"),
	})
	require.NoError(t, err)
	assert.Equal(t, []models.GroupedRow{
		{Location: "A", Date: "2024-01-01", Hours: []string{"9:00", "10:05"}},
		{Location: "B", Date: "2024-01-02", Hours: []string{"8:00"}},
	}, rows)
}

func TestAggregateEmptyInput(t *testing.T) {
	for name, in := range map[string][]models.AppointmentRecord{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			rows, err := Aggregate(in)
			require.NoError(t, err)
			assert.NotNil(t, rows)
			assert.Empty(t, rows)
		})
	}
}

func TestAggregateFirstSeenOrderAndStableHours(t *testing.T) {
	rows, err := Aggregate([]models.AppointmentRecord{
		rec("B", "2024-01-02T00:00", "12:30"),
		rec("A", "2024-01-01T00:00", "9:15"),
		rec("B", "2024-01-02T00:00", "8:0"),
		rec("A", "2024-01-01T00:00", "7:45"),
		rec("B", "2024-01-03T00:00", "10:0"),
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "B", rows[0].Location)
	assert.Equal(t, []string{"12:30", "8:00"}, rows[0].Hours)
	assert.Equal(t, "A", rows[1].Location)
	assert.Equal(t, []string{"9:15", "7:45"}, rows[1].Hours)
	assert.Equal(t, "2024-01-03", rows[2].Date)
}

func TestAggregateKeysAreExactStrings(t *testing.T) {
	// Same calendar day, different timestamps: two rows with the same pretty date.
	rows, err := Aggregate([]models.AppointmentRecord{
		rec("A", "2024-01-01T00:00", "9:0"),
		rec("A", "2024-01-01T00:00:00", "9:30"),
		rec("a", "2024-01-01T00:00", "10:0"),
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, rows[0].Date, rows[1].Date)
}

func TestAggregateKeepsEveryRecord(t *testing.T) {
	in := []models.AppointmentRecord{
		rec("A", "2024-01-01T00:00", "9:0"),
		rec("A", "2024-01-01T00:00", "9:0"),
		rec("C", "2024-01-01T00:00", "9:0"),
		rec("A", "2024-01-05T00:00", "11:20"),
		rec("C", "2024-01-01T00:00", "16:5"),
	}
	rows, err := Aggregate(in)
	require.NoError(t, err)

	distinct := map[[2]string]bool{}
	for _, r := range in {
		distinct[[2]string{r.Location, r.Date}] = true
	}
	assert.Len(t, rows, len(distinct))

	total := 0
	for _, row := range rows {
		total += len(row.Hours)
	}
	assert.Equal(t, len(in), total)
	assert.Equal(t, []string{"9:00", "9:00"}, rows[0].Hours)
}

func TestAggregateRejectsMalformedRecords(t *testing.T) {
	cases := []struct {
		name  string
		in    models.AppointmentRecord
		field string
	}{
		{"missing location", rec("", "2024-01-01T00:00", "9:0"), "location"},
		{"missing date", rec("A", "", "9:0"), "date"},
		{"missing hour", rec("A", "2024-01-01T00:00", ""), "hour"},
		{"hour without separator", rec("A", "2024-01-01T00:00", "900"), "hour"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := Aggregate([]models.AppointmentRecord{rec("A", "2024-01-01T00:00", "8:0"), tc.in})
			require.Error(t, err)
			assert.Nil(t, rows)
			assert.True(t, errors.Is(err, ErrMalformedRecord))

			var malformed *MalformedRecordError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, 1, malformed.Index)
			assert.Equal(t, tc.field, malformed.Field)
		})
	}
}

func TestAggregateEmptyMinutes(t *testing.T) {
	rows, err := Aggregate([]models.AppointmentRecord{
		rec("A", "2024-01-01T00:00", "9:"),
		rec("A", "2024-01-01T00:00", "9:5"),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"9:0", "9:05"}, rows[0].Hours)
}

func TestFormatSlot(t *testing.T) {
	cases := map[string]string{
		"9:5":     "9:05",
		"9:15":    "9:15",
		"14:30":   "14:30",
		"8:0":     "8:00",
		"10:123":  "10:23",
		"7:05:00": "7:05",
		"900":     "900",
		"9:":      "9:0",
		":":       ":0",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatSlot(in), in)
	}
}

func TestPrettyDate(t *testing.T) {
	assert.Equal(t, "2024-05-01", PrettyDate("2024-05-01T10:00:00Z"))
	assert.Equal(t, "2024-05-01", PrettyDate("2024-05-01"))
	assert.Equal(t, "2024-05-01", PrettyDate(PrettyDate("2024-05-01T00:00")))
	assert.Equal(t, "", PrettyDate(""))
}
