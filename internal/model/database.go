package model

// Database is the whole persisted application state.
type Database struct {
	Templates []Template `json:"templates" validate:"required"`
	Instances []Instance `json:"instances" validate:"required"`
}

// NewDatabase returns an empty database with non-nil lists.
func NewDatabase() *Database {
	return &Database{Templates: []Template{}, Instances: []Instance{}}
}

// Normalize replaces nil lists with empty ones so the JSON form is always [].
func (db *Database) Normalize() {
	if db.Templates == nil {
		db.Templates = []Template{}
	}
	if db.Instances == nil {
		db.Instances = []Instance{}
	}
}

func (db *Database) FindTemplate(id int64) (*Template, bool) {
	for i := range db.Templates {
		if db.Templates[i].ID == id {
			return &db.Templates[i], true
		}
	}
	return nil, false
}

func (db *Database) FindInstance(id string) (*Instance, bool) {
	for i := range db.Instances {
		if db.Instances[i].ID == id {
			return &db.Instances[i], true
		}
	}
	return nil, false
}

func (db *Database) HasInstance(id string) bool {
	_, ok := db.FindInstance(id)
	return ok
}

// InstancesOf returns the instances owned by templateID, in database order.
func (db *Database) InstancesOf(templateID int64) []Instance {
	var out []Instance
	for _, in := range db.Instances {
		if in.TemplateID == templateID {
			out = append(out, in)
		}
	}
	return out
}

// MaxTemplateID is the largest template id in use, or 0.
func (db *Database) MaxTemplateID() int64 {
	var max int64
	for _, t := range db.Templates {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}
