package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/controldesk/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixture() *model.Database {
	return &model.Database{
		Templates: []model.Template{
			{ID: 1, Text: "Check queue", Tag: model.TagSupport, Type: model.Recurring, IsActive: true},
			{ID: 2, Text: "Pay invoice", Tag: model.TagGeneral, Type: model.OneOff, IsActive: true},
			{ID: 3, Text: "Run query", Tag: model.TagSQL, Type: model.Recurring, IsActive: true},
			{ID: 4, Text: "Weekly sync", Tag: model.TagSupport, Type: model.Recurring},
		},
		Instances: []model.Instance{
			{ID: "1_2024-01-05", TemplateID: 1, DueDate: day(2024, 1, 5), Completed: true},
			{ID: "2_2024-01-05", TemplateID: 2, DueDate: day(2024, 1, 5).Add(3 * time.Hour)},
			{ID: "3_2024-01-05", TemplateID: 3, DueDate: day(2024, 1, 5)},
			{ID: "1_2024-01-06", TemplateID: 1, DueDate: day(2024, 1, 6), Completed: true},
			{ID: "9_2024-01-05", TemplateID: 9, DueDate: day(2024, 1, 5)},
			{ID: "1_2024-02-01", TemplateID: 1, DueDate: day(2024, 2, 1)},
		},
	}
}

func TestForDate(t *testing.T) {
	got := ForDate(fixture(), day(2024, 1, 5).Add(20*time.Hour))
	require.Len(t, got, 3)
	assert.Equal(t, "Check queue", got[0].Template.Text)
	assert.Equal(t, "Pay invoice", got[1].Template.Text)
	assert.Equal(t, "3_2024-01-05", got[2].Instance.ID)

	assert.Empty(t, ForDate(fixture(), day(2024, 1, 7)))
}

func TestDaily(t *testing.T) {
	// the dangling instance still counts; it is due that day
	assert.Equal(t, Counters{Completed: 1, Pending: 3, Total: 4}, Daily(fixture(), day(2024, 1, 5)))
	assert.Equal(t, Counters{}, Daily(fixture(), day(2024, 1, 7)))
}

func TestMonth(t *testing.T) {
	cal := Month(fixture(), 2024, time.January, day(2024, 1, 6).Add(12*time.Hour))

	assert.Equal(t, 1, cal.Lead, "1 January 2024 is a Monday")
	require.Len(t, cal.Days, 31)
	assert.Equal(t, Day{Date: day(2024, 1, 5), Completed: 1, Pending: 3}, cal.Days[4])
	assert.Equal(t, Day{Date: day(2024, 1, 6), Completed: 1, IsToday: true}, cal.Days[5])
	assert.Equal(t, Day{Date: day(2024, 1, 31)}, cal.Days[30])
}

func TestSummarize(t *testing.T) {
	st := Summarize(fixture())
	assert.Equal(t, 4, st.Templates)
	assert.Equal(t, 2, st.Completed)
	assert.Equal(t, 4, st.Pending)
	assert.Equal(t, 33, st.Adherence)
	assert.Equal(t, []TagCount{
		{Tag: model.TagGeneral, Count: 1},
		{Tag: model.TagSQL, Count: 1},
		{Tag: model.TagSupport, Count: 2},
	}, st.ByTag)
}

func TestSummarize_Empty(t *testing.T) {
	st := Summarize(model.NewDatabase())
	assert.Zero(t, st.Adherence)
	assert.Empty(t, st.ByTag)
}
