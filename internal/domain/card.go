package domain

// Card type names are a fixed set on the backend; clients map display
// classes off them.
const (
	CardTypeMagicalItems = "magical-items"
	CardTypeMazeCards    = "maze-cards"
)

// Tag labels a card. Tags travel embedded in card payloads and have no
// independent lifecycle; Name is unique within a single card's tag list,
// not globally.
type Tag struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Card is the single payload shape for every card operation: creates omit
// ID, reads carry it, updates send the full record back. The backend
// assigns IDs and they are immutable once set.
type Card struct {
	ID         *int64  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Fluff      *string `json:"fluff"`
	Effect     *string `json:"effect"`
	InSet      bool    `json:"in_set"`
	SetName    *string `json:"set_name"`
	Tags       []Tag   `json:"tags"`
	UserID     *int64  `json:"user_id,omitempty"`
	CardTypeID int64   `json:"card_type_id"`
	Size       *string `json:"size,omitempty"`
}

// CardType is a read-only lookup row fetched from the backend.
type CardType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
