package entity

type SkinEventKind string

const (
	SkinAdded    SkinEventKind = "added"
	SkinUpdated  SkinEventKind = "updated"
	SkinDeleted  SkinEventKind = "deleted"
	SkinSold     SkinEventKind = "sold"
	SkinRepriced SkinEventKind = "repriced"
)

// SkinEvent is published after a committed mutation of an owner's skins.
// Transaction is set for sales and price changes.
type SkinEvent struct {
	Kind        SkinEventKind
	OwnerID     string
	Skin        Skin
	Transaction *Transaction
}
