package tasks

import (
	"time"

	"github.com/idilsaglam/controldesk/internal/dates"
	"github.com/idilsaglam/controldesk/internal/model"
)

// GenerateDailyInstances adds today's instance for every active recurring
// template that has started, and reports whether anything was added.
//
// It is idempotent: the instance id is derived from (template, day), so a
// second call on the same day finds every id present and adds nothing.
// Existing instances are never changed or removed, and missed days are not
// backfilled.
func GenerateDailyInstances(db *model.Database, today time.Time) bool {
	day := dates.Midnight(today)
	have := make(map[string]struct{}, len(db.Instances))
	for _, in := range db.Instances {
		have[in.ID] = struct{}{}
	}

	modified := false
	for _, t := range db.Templates {
		if !t.IsActive || !t.IsRecurring() || !dates.NotAfter(t.StartDate, day) {
			continue
		}
		id := model.InstanceID(t.ID, day)
		if _, ok := have[id]; ok {
			continue
		}
		db.Instances = append(db.Instances, model.Instance{
			ID:         id,
			TemplateID: t.ID,
			DueDate:    day,
		})
		have[id] = struct{}{}
		modified = true
	}
	return modified
}
