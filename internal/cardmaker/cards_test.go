package cardmaker

import (
	"context"
	"github.com/go-json-experiment/json"
	"io"
	"net/http"
	"reflect"
	"testing"

	"github.com/cardmakerapp/cardmaker-go/internal/domain"
	apperrors "github.com/cardmakerapp/cardmaker-go/internal/errors"
)

func testCard(name string) domain.Card {
	fluff := "Woven from dusk itself."
	return domain.Card{
		Name:       name,
		Fluff:      &fluff,
		InSet:      true,
		Tags:       []domain.Tag{{Name: "cloak"}},
		CardTypeID: 1,
	}
}

func TestGetCardTypes(t *testing.T) {
	fixture := loadFixture(t, "card_types.json")
	client, _ := newTestClient(t, fixtureHandler(t, "/card-types", fixture))

	types, err := client.GetCardTypes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(types) != 2 {
		t.Fatalf("got %d card types, want 2", len(types))
	}
	if types[0].Name != domain.CardTypeMagicalItems || types[1].Name != domain.CardTypeMazeCards {
		t.Errorf("unexpected card type order: %v", types)
	}
}

func TestGetCards_PreservesBackendOrder(t *testing.T) {
	fixture := loadFixture(t, "cards.json")
	client, _ := newTestClient(t, fixtureHandler(t, "/cards", fixture))

	cards, err := client.GetCards(context.Background(), CardFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(cards))
	}
	if cards[0].Name != "Amulet of Yendor" || cards[1].Name != "Maze Entrance" {
		t.Errorf("response order not preserved: %q, %q", cards[0].Name, cards[1].Name)
	}
	if len(cards[0].Tags) != 2 {
		t.Errorf("got %d tags on first card, want 2", len(cards[0].Tags))
	}
}

func TestGetCards_EmptyIsNotNil(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}
	client, _ := newTestClient(t, http.HandlerFunc(handler))

	cards, err := client.GetCards(context.Background(), CardFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cards == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestGetCards_Idempotent(t *testing.T) {
	fixture := loadFixture(t, "cards.json")
	client, _ := newTestClient(t, fixtureHandler(t, "/cards", fixture))

	first, err := client.GetCards(context.Background(), CardFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := client.GetCards(context.Background(), CardFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two reads with no intervening writes differ")
	}
}

func TestGetCards_FilterQuery(t *testing.T) {
	var query map[string][]string
	handler := func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`[]`))
	}
	client, _ := newTestClient(t, http.HandlerFunc(handler))

	filter := CardFilter{UserID: 3, CardTypeID: 1, Tags: []string{"artefact", "2023"}}
	if _, err := client.GetCards(context.Background(), filter); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string][]string{
		"user_id":      {"3"},
		"card_type_id": {"1"},
		"tags":         {"artefact,2023"},
	}
	if !reflect.DeepEqual(query, want) {
		t.Errorf("got query %v, want %v", query, want)
	}
}

func TestGetCard(t *testing.T) {
	fixture := loadFixture(t, "card.json")
	client, _ := newTestClient(t, fixtureHandler(t, "/cards/5", fixture))

	card, err := client.GetCard(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card == nil {
		t.Fatal("expected a card")
	}
	if card.ID == nil || *card.ID != 5 {
		t.Errorf("got card ID %v, want 5", card.ID)
	}
	if card.Name != "Cloak of Shadows" {
		t.Errorf("got name %q", card.Name)
	}
}

func TestGetCard_NotFoundVersusHardFailure(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		strict     bool
		wantCard   bool
		wantErr    error
	}{
		{"absent card absorbing", http.StatusNotFound, false, false, nil},
		{"absent card strict", http.StatusNotFound, true, false, apperrors.ErrNotFound},
		{"server failure absorbing", http.StatusInternalServerError, false, false, nil},
		{"server failure strict", http.StatusInternalServerError, true, false, &apperrors.StatusError{Status: http.StatusInternalServerError}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}
			var opts []Option
			if tt.strict {
				opts = append(opts, WithPropagatingReads())
			}
			client, _ := newTestClient(t, http.HandlerFunc(handler), opts...)

			card, err := client.GetCard(context.Background(), 9)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else if !apperrors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
			if tt.wantCard != (card != nil) {
				t.Errorf("got card %v, wantCard %v", card, tt.wantCard)
			}
		})
	}
}

func TestGetCard_NotFoundDistinctFromServerError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}
	client, _ := newTestClient(t, http.HandlerFunc(handler), WithPropagatingReads())

	_, err := client.GetCard(context.Background(), 9)
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok := apperrors.StatusOf(err); ok {
		t.Error("not-found must not be classified as an HTTP failure")
	}
}

func TestCreateCard(t *testing.T) {
	fixture := loadFixture(t, "card.json")
	var gotBody []byte
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cards" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write(fixture)
	}
	client, _ := newTestClient(t, http.HandlerFunc(handler))

	created, err := client.CreateCard(context.Background(), testCard("Cloak of Shadows"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == nil || *created.ID != 5 {
		t.Errorf("got created ID %v, want 5", created.ID)
	}

	// Creates never send an ID; the backend assigns them.
	var payload map[string]any
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("failed to parse request body: %v", err)
	}
	if _, ok := payload["id"]; ok {
		t.Error("create payload must not carry an id")
	}
}

func TestCreateCard_PropagatesFailure(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound) // e.g. invalid card_type_id
	}
	client, _ := newTestClient(t, http.HandlerFunc(handler))

	_, err := client.CreateCard(context.Background(), testCard("Broken"))
	status, ok := apperrors.StatusOf(err)
	if !ok {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("got status %d, want 404", status)
	}
}

func TestUpdateCard(t *testing.T) {
	var gotMethod, gotPath string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}
	client, _ := newTestClient(t, http.HandlerFunc(handler))

	if err := client.UpdateCard(context.Background(), 5, testCard("Cloak of Shadows")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/cards/5" {
		t.Errorf("got %s %s, want PUT /cards/5", gotMethod, gotPath)
	}
}

func TestUpdateCard_PropagatesFailure(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}
	client, _ := newTestClient(t, http.HandlerFunc(handler))

	err := client.UpdateCard(context.Background(), 5, testCard("Cloak of Shadows"))
	if status, _ := apperrors.StatusOf(err); status != http.StatusConflict {
		t.Errorf("got %v, want status 409", err)
	}
}

func TestDeleteCard_RedirectFiresOnceOnSuccess(t *testing.T) {
	var gotMethod, gotPath string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}
	client, _ := newTestClient(t, http.HandlerFunc(handler))

	redirects := 0
	err := client.DeleteCard(context.Background(), 5, func() { redirects++ })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/cards/5" {
		t.Errorf("got %s %s, want DELETE /cards/5", gotMethod, gotPath)
	}
	if redirects != 1 {
		t.Errorf("redirect fired %d times, want exactly 1", redirects)
	}
}

func TestDeleteCard_NoRedirectOnFailure(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	client, _ := newTestClient(t, http.HandlerFunc(handler))

	redirects := 0
	err := client.DeleteCard(context.Background(), 5, func() { redirects++ })
	if err == nil {
		t.Fatal("expected error")
	}
	if redirects != 0 {
		t.Errorf("redirect fired %d times on failure, want 0", redirects)
	}
}

func TestGetTags(t *testing.T) {
	fixture := loadFixture(t, "tags.json")
	client, _ := newTestClient(t, fixtureHandler(t, "/tags", fixture))

	tags, err := client.GetTags(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("got %d tags, want 3", len(tags))
	}
	if tags[0].Name != "artefact" || tags[0].Description == nil {
		t.Errorf("unexpected first tag: %+v", tags[0])
	}
	if tags[1].Description != nil {
		t.Errorf("expected nil description on %q", tags[1].Name)
	}
}
