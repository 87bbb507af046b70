// Package fixture seeds entity stores from static JSON documents.
//
// Seeding is an explicit startup step: the composition root points the
// loader at a directory holding one JSON array per entity. A missing
// file leaves that store empty; malformed JSON aborts startup.
package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/whatsflow/crm-platform/internal/store"
)

// Load seeds every store from <dir>/<entity>.json.
func Load(dir string, stores *store.Stores) error {
	if err := seed(dir, "contacts", stores.Contacts); err != nil {
		return err
	}
	if err := seed(dir, "conversations", stores.Conversations); err != nil {
		return err
	}
	if err := seed(dir, "messages", stores.Messages); err != nil {
		return err
	}
	if err := seed(dir, "templates", stores.Templates); err != nil {
		return err
	}
	if err := seed(dir, "users", stores.Users); err != nil {
		return err
	}
	if err := seed(dir, "clients", stores.Clients); err != nil {
		return err
	}
	if err := seed(dir, "features", stores.Features); err != nil {
		return err
	}
	if err := seed(dir, "billing", stores.Billing); err != nil {
		return err
	}
	if err := seed(dir, "flows", stores.Flows); err != nil {
		return err
	}
	return nil
}

func seed[T store.Record[T]](dir, entity string, s *store.Store[T]) error {
	path := filepath.Join(dir, entity+".json")

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse fixture %s: %w", path, err)
	}

	s.Seed(records)
	return nil
}
