// Package report derives the read-only views: the task list for a day, its
// counters, the month calendar and the overall statistics.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/idilsaglam/controldesk/internal/dates"
	"github.com/idilsaglam/controldesk/internal/model"
)

// Entry is an instance joined to its template.
type Entry struct {
	Instance model.Instance
	Template model.Template
}

// ForDate lists the instances due on day, in database order. Instances whose
// template is gone are skipped.
func ForDate(db *model.Database, day time.Time) []Entry {
	var out []Entry
	for _, in := range db.Instances {
		if !dates.SameCalendarDay(day, in.DueDate) {
			continue
		}
		t, ok := db.FindTemplate(in.TemplateID)
		if !ok {
			continue
		}
		out = append(out, Entry{Instance: in, Template: *t})
	}
	return out
}

type Counters struct {
	Completed, Pending, Total int
}

func Daily(db *model.Database, day time.Time) Counters {
	var c Counters
	for _, in := range db.Instances {
		if !dates.SameCalendarDay(day, in.DueDate) {
			continue
		}
		c.Total++
		if in.Completed {
			c.Completed++
		}
	}
	c.Pending = c.Total - c.Completed
	return c
}

type Day struct {
	Date               time.Time
	Completed, Pending int
	IsToday            bool
}

// Calendar is one month. Lead is the number of blank cells before day 1 in a
// week that starts on Sunday.
type Calendar struct {
	Year  int
	Month time.Month
	Lead  int
	Days  []Day
}

func Month(db *model.Database, year int, month time.Month, today time.Time) Calendar {
	loc := today.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	cal := Calendar{Year: year, Month: month, Lead: int(first.Weekday())}

	n := dates.MonthDays(year, month)
	cal.Days = make([]Day, n)
	for i := range cal.Days {
		cal.Days[i] = Day{
			Date:    first.AddDate(0, 0, i),
			IsToday: dates.SameCalendarDay(today, first.AddDate(0, 0, i)),
		}
	}
	for _, in := range db.Instances {
		due := in.DueDate.In(loc)
		if due.Year() != year || due.Month() != month {
			continue
		}
		d := &cal.Days[due.Day()-1]
		if in.Completed {
			d.Completed++
		} else {
			d.Pending++
		}
	}
	return cal
}

type TagCount struct {
	Tag   model.Tag
	Count int
}

type Stats struct {
	Templates int
	Completed int
	Pending   int
	// Adherence is the share of completed instances, as a rounded percentage.
	Adherence int
	ByTag     []TagCount
}

func Summarize(db *model.Database) Stats {
	st := Stats{Templates: len(db.Templates)}
	for _, in := range db.Instances {
		if in.Completed {
			st.Completed++
		}
	}
	st.Pending = len(db.Instances) - st.Completed
	if len(db.Instances) > 0 {
		st.Adherence = int(math.Round(float64(st.Completed) / float64(len(db.Instances)) * 100))
	}

	counts := map[model.Tag]int{}
	for _, t := range db.Templates {
		counts[t.Tag]++
	}
	for tag, n := range counts {
		st.ByTag = append(st.ByTag, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(st.ByTag, func(i, j int) bool { return st.ByTag[i].Tag < st.ByTag[j].Tag })
	return st
}
