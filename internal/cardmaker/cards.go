package cardmaker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cardmakerapp/cardmaker-go/internal/domain"
	apperrors "github.com/cardmakerapp/cardmaker-go/internal/errors"
)

// CardFilter narrows a GetCards call. The zero value selects everything.
type CardFilter struct {
	UserID     int64
	CardTypeID int64
	Tags       []string
}

func (f CardFilter) query() url.Values {
	q := url.Values{}
	if f.UserID != 0 {
		q.Set("user_id", strconv.FormatInt(f.UserID, 10))
	}
	if f.CardTypeID != 0 {
		q.Set("card_type_id", strconv.FormatInt(f.CardTypeID, 10))
	}
	if len(f.Tags) > 0 {
		q.Set("tags", strings.Join(f.Tags, ","))
	}
	return q
}

// GetCardTypes fetches all card types in backend order. Under the
// absorbing read policy a failure is logged and an empty slice returned.
func (c *Client) GetCardTypes(ctx context.Context) ([]domain.CardType, error) {
	types, err := get[[]domain.CardType](c, ctx, "/card-types", nil)
	if err != nil {
		if c.absorb("card types fetch", err) {
			return []domain.CardType{}, nil
		}
		return nil, fmt.Errorf("fetch card types: %w", err)
	}
	if types == nil {
		types = []domain.CardType{}
	}
	return types, nil
}

// GetCards fetches cards matching filter in backend order. Under the
// absorbing read policy a failure is logged and an empty slice returned.
func (c *Client) GetCards(ctx context.Context, filter CardFilter) ([]domain.Card, error) {
	cards, err := get[[]domain.Card](c, ctx, "/cards", filter.query())
	if err != nil {
		if c.absorb("cards fetch", err) {
			return []domain.Card{}, nil
		}
		return nil, fmt.Errorf("fetch cards: %w", err)
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	return cards, nil
}

// GetCard fetches a single card. A backend 404 means the card does not
// exist: under the absorbing policy that is (nil, nil), under the
// propagating policy it is ErrNotFound. Both are distinct from a hard
// failure.
func (c *Client) GetCard(ctx context.Context, cardID int64) (*domain.Card, error) {
	card, err := get[domain.Card](c, ctx, fmt.Sprintf("/cards/%d", cardID), nil)
	if err != nil {
		if status, ok := apperrors.StatusOf(err); ok && status == http.StatusNotFound {
			if c.strict {
				return nil, apperrors.ErrNotFound
			}
			return nil, nil
		}
		if c.absorb("card fetch", err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch card %d: %w", cardID, err)
	}
	return &card, nil
}

// CreateCard creates a new card and returns the stored record. Failures
// propagate to the caller.
func (c *Client) CreateCard(ctx context.Context, card domain.Card) (*domain.Card, error) {
	card.ID = nil // the backend assigns IDs
	created, err := post[domain.Card](c, ctx, "/cards", card)
	if err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}
	return &created, nil
}

// UpdateCard replaces the card with the given ID with the full payload.
// Failures propagate to the caller; concurrent updates race at the
// backend, last write wins.
func (c *Client) UpdateCard(ctx context.Context, cardID int64, card domain.Card) error {
	if err := c.put(ctx, fmt.Sprintf("/cards/%d", cardID), card); err != nil {
		return fmt.Errorf("update card %d: %w", cardID, err)
	}
	return nil
}

// DeleteCard deletes the card with the given ID. On success the redirect
// callback is invoked exactly once; it is never invoked on failure.
func (c *Client) DeleteCard(ctx context.Context, cardID int64, redirect func()) error {
	if err := c.del(ctx, fmt.Sprintf("/cards/%d", cardID)); err != nil {
		return fmt.Errorf("delete card %d: %w", cardID, err)
	}
	if redirect != nil {
		redirect()
	}
	return nil
}
