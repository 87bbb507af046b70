package store

import (
	"github.com/whatsflow/crm-platform/internal/model"
)

// Stores bundles every entity store behind one composition-root handle.
// Each store owns its list exclusively; cross-entity references are
// plain integer ids resolved by callers, with no referential-integrity
// enforcement (deleting a contact does not touch its conversations).
type Stores struct {
	Contacts      *Store[*model.Contact]
	Conversations *Store[*model.Conversation]
	Messages      *Store[*model.Message]
	Templates     *Store[*model.Template]
	Users         *Store[*model.User]
	Clients       *Store[*model.Client]
	Features      *Store[*model.Feature]
	Billing       *Store[*model.Billing]
	Flows         *Store[*model.Flow]
}

// NewStores creates one store per entity type, all sharing the same
// options.
func NewStores(opts ...Option) *Stores {
	return &Stores{
		Contacts:      New[*model.Contact](opts...),
		Conversations: New[*model.Conversation](opts...),
		Messages:      New[*model.Message](opts...),
		Templates:     New[*model.Template](opts...),
		Users:         New[*model.User](opts...),
		Clients:       New[*model.Client](opts...),
		Features:      New[*model.Feature](opts...),
		Billing:       New[*model.Billing](opts...),
		Flows:         New[*model.Flow](opts...),
	}
}
