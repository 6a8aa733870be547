// Package jsonstore persists the whole database as one JSON blob in a kv slot,
// and moves it in and out of backup files.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/idilsaglam/controldesk/internal/dates"
	"github.com/idilsaglam/controldesk/internal/model"
	"github.com/idilsaglam/controldesk/internal/store/kv"
)

const (
	DefaultSlot  = "deliveryControlDB"
	ThemeSlot    = "theme"
	DefaultTheme = "dark"
)

var (
	// ErrStorage marks a failed write. The in-memory state stays authoritative.
	ErrStorage = errors.New("could not save data, storage may be full or unavailable")
	// ErrInvalidBackup marks an import file that is not a database.
	ErrInvalidBackup = errors.New("file is not a valid backup")
)

type Gateway struct {
	kv       *kv.Store
	slot     string
	validate *validator.Validate
}

func New(store *kv.Store, slot string) *Gateway {
	if strings.TrimSpace(slot) == "" {
		slot = DefaultSlot
	}
	return &Gateway{kv: store, slot: slot, validate: validator.New()}
}

// Load never fails: a missing or unreadable slot yields an empty database.
// Losing a corrupt blob is preferred to refusing to start.
func (g *Gateway) Load() *model.Database {
	b, ok, err := g.kv.Get(g.slot)
	if err != nil {
		log.Printf("load %s: %v; starting from an empty database", g.slot, err)
		return model.NewDatabase()
	}
	if !ok {
		return model.NewDatabase()
	}
	var db model.Database
	if err := json.Unmarshal(b, &db); err != nil {
		log.Printf("load %s: corrupt data (%v); resetting to an empty database", g.slot, err)
		return model.NewDatabase()
	}
	db.Normalize()
	return &db
}

func (g *Gateway) Save(db *model.Database) error {
	b, err := json.Marshal(db)
	if err != nil {
		return fmt.Errorf("%w: json marshal: %v", ErrStorage, err)
	}
	if err := g.kv.Set(g.slot, b); err != nil {
		log.Printf("save %s: %v", g.slot, err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Export renders db as the pretty-printed backup file body.
func Export(db *model.Database) ([]byte, error) {
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// ExportFileName is the suggested backup name for the day of now.
func ExportFileName(now time.Time) string {
	return "backup_control_desk_" + dates.ISO(now) + ".json"
}

// Import parses a backup and checks its shape. It does not touch any state;
// the caller swaps the result in only after it returns without error.
func (g *Gateway) Import(b []byte) (*model.Database, error) {
	var db model.Database
	if err := json.Unmarshal(b, &db); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", ErrInvalidBackup, err)
	}
	if err := g.validate.Struct(db); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, strings.ToLower(fe.Field()))
			}
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidBackup, strings.Join(missing, ", "))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return &db, nil
}

func (g *Gateway) LoadTheme() string {
	b, ok, err := g.kv.Get(ThemeSlot)
	if err != nil || !ok {
		return DefaultTheme
	}
	var name string
	if err := json.Unmarshal(b, &name); err != nil || name == "" {
		return DefaultTheme
	}
	return name
}

func (g *Gateway) SaveTheme(name string) error {
	b, _ := json.Marshal(name)
	if err := g.kv.Set(ThemeSlot, b); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
