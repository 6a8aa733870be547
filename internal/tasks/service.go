// Package tasks owns the in-memory database and every operation that changes it.
package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/idilsaglam/controldesk/internal/dates"
	"github.com/idilsaglam/controldesk/internal/model"
)

var (
	ErrInvalidTask  = errors.New("invalid task")
	ErrNotOneOff    = errors.New("task is recurring; discontinue it instead")
	ErrNotRecurring = errors.New("task is one-off; delete it instead")
)

// Saver flushes the whole database. Errors are reported, never rolled back.
type Saver interface {
	Save(db *model.Database) error
}

// Fields are the user-supplied parts of a new template.
type Fields struct {
	Text        string         `validate:"required"`
	Description string         `validate:"max=2000"`
	Tag         model.Tag      `validate:"oneof=general sql report meeting support"`
	Type        model.TaskType `validate:"oneof=recurring one-off"`
	StartDate   time.Time      `validate:"required"`
}

type Service struct {
	db       *model.Database
	saver    Saver
	now      func() time.Time
	validate *validator.Validate
}

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db *model.Database, saver Saver, opts ...Option) *Service {
	if db == nil {
		db = model.NewDatabase()
	}
	db.Normalize()
	s := &Service{
		db:       db,
		saver:    saver,
		now:      time.Now,
		validate: validator.New(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Database is the current state, for rendering. Callers must not keep it
// across a Replace.
func (s *Service) Database() *model.Database { return s.db }

func (s *Service) Now() time.Time { return s.now() }

func (s *Service) persist() error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Save(s.db)
}

// Generate materializes today's recurring instances and saves only if
// something was added.
func (s *Service) Generate() (bool, error) {
	if !GenerateDailyInstances(s.db, s.now()) {
		return false, nil
	}
	return true, s.persist()
}

// CreateTemplate adds a template; a one-off also gets its single instance
// dated StartDate. The template is returned even when saving fails.
func (s *Service) CreateTemplate(f Fields) (model.Template, error) {
	f.Text = strings.TrimSpace(f.Text)
	f.Description = strings.TrimSpace(f.Description)
	if f.Tag == "" {
		f.Tag = model.TagGeneral
	}
	if err := s.validate.Struct(f); err != nil {
		return model.Template{}, describe(err)
	}

	start := dates.Midnight(f.StartDate)
	t := model.Template{
		ID:          s.nextID(),
		Text:        f.Text,
		Description: f.Description,
		Tag:         f.Tag,
		Type:        f.Type,
		StartDate:   start,
		IsActive:    true,
	}
	s.db.Templates = append(s.db.Templates, t)
	if t.Type == model.OneOff {
		s.db.Instances = append(s.db.Instances, model.Instance{
			ID:         model.InstanceID(t.ID, start),
			TemplateID: t.ID,
			DueDate:    start,
		})
	}

	saveErr := s.persist()
	if _, err := s.Generate(); err != nil && saveErr == nil {
		saveErr = err
	}
	return t, saveErr
}

// nextID is the creation time in milliseconds, bumped past every id in use.
func (s *Service) nextID() int64 {
	id := s.now().UnixMilli()
	if max := s.db.MaxTemplateID(); id <= max {
		id = max + 1
	}
	return id
}

// ToggleCompletion flips an instance. An unknown id is a no-op: found is
// false and nothing is written.
func (s *Service) ToggleCompletion(instanceID string) (in model.Instance, found bool, err error) {
	p, ok := s.db.FindInstance(instanceID)
	if !ok {
		return model.Instance{}, false, nil
	}
	p.Completed = !p.Completed
	if p.Completed {
		now := s.now()
		p.CompletedAt = &now
	} else {
		p.CompletedAt = nil
	}
	return *p, true, s.persist()
}

// DiscontinueTemplate stops a recurring template from generating. Its
// instances stay. Unknown or already inactive templates are left alone.
// Asking the user first is the caller's job.
func (s *Service) DiscontinueTemplate(templateID int64) (bool, error) {
	t, ok := s.db.FindTemplate(templateID)
	if !ok || !t.IsActive {
		return false, nil
	}
	if !t.IsRecurring() {
		return false, ErrNotRecurring
	}
	now := s.now()
	t.IsActive = false
	t.EndDate = &now
	return true, s.persist()
}

// DeleteOneOffTask removes the instance and, once nothing else references
// it, its template. Asking the user first is the caller's job.
func (s *Service) DeleteOneOffTask(instanceID string) (bool, error) {
	in, ok := s.db.FindInstance(instanceID)
	if !ok {
		return false, nil
	}
	templateID := in.TemplateID
	if t, ok := s.db.FindTemplate(templateID); ok && t.IsRecurring() {
		return false, ErrNotOneOff
	}

	kept := s.db.Instances[:0]
	for _, i := range s.db.Instances {
		if i.ID != instanceID {
			kept = append(kept, i)
		}
	}
	s.db.Instances = kept

	if len(s.db.InstancesOf(templateID)) == 0 {
		templates := s.db.Templates[:0]
		for _, t := range s.db.Templates {
			if t.ID != templateID {
				templates = append(templates, t)
			}
		}
		s.db.Templates = templates
	}
	return true, s.persist()
}

// Replace swaps in an already validated database (an import), saves it and
// brings it up to date for today.
func (s *Service) Replace(db *model.Database) error {
	db.Normalize()
	s.db = db
	saveErr := s.persist()
	if _, err := s.Generate(); err != nil && saveErr == nil {
		saveErr = err
	}
	return saveErr
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidTask, field)
	case "oneof":
		return fmt.Errorf("%w: %s must be one of %s, got %q", ErrInvalidTask, field, fe.Param(), fe.Value())
	case "max":
		return fmt.Errorf("%w: %s is longer than %s characters", ErrInvalidTask, field, fe.Param())
	}
	return fmt.Errorf("%w: %s", ErrInvalidTask, fe.Error())
}
