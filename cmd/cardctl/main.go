// Package main provides cardctl, a command-line front end for the
// CardMaker API client.
//
// Usage:
//
//	cardctl -endpoint=https://cards.example.com/cardmaker <command> [args]
//
// Commands:
//
//	card-types                 list card types
//	cards [-user N] [-type N] [-tags a,b]
//	card <id>                  show a single card
//	create-card                create a card from a JSON payload on stdin
//	update-card <id>           update a card from a JSON payload on stdin
//	delete-card <id>           delete a card
//	users                      list users
//	tags                       list tags
//	signup <username> <password>
//	login <username> <password>
//	logout
package main

import (
	"context"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/go-json-experiment/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/do/v2"

	"github.com/cardmakerapp/cardmaker-go/internal/cardmaker"
	"github.com/cardmakerapp/cardmaker-go/internal/di"
	"github.com/cardmakerapp/cardmaker-go/internal/di/providers"
	"github.com/cardmakerapp/cardmaker-go/internal/domain"
	"github.com/cardmakerapp/cardmaker-go/internal/logger"
)

func main() {
	injector := di.NewContainer()

	// Invoking the client pulls in config (which parses flags), the
	// logger, and the session store.
	clientHandle, err := do.Invoke[*providers.ClientHandle](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cardctl: %v\n", err)
		os.Exit(1)
	}
	log := do.MustInvoke[*logger.Logger](injector)

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "cardctl: missing command (try: cards, card, create-card, login)")
		os.Exit(2)
	}

	err = run(context.Background(), clientHandle.Client, args)

	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		log.Error("shutdown error", "error", shutdownErr)
	}
	if err != nil {
		log.Error("command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *cardmaker.Client, args []string) error {
	command, rest := args[0], args[1:]

	switch command {
	case "card-types":
		types, err := client.GetCardTypes(ctx)
		if err != nil {
			return err
		}
		return printJSON(types)

	case "cards":
		filter, err := parseCardFilter(rest)
		if err != nil {
			return err
		}
		cards, err := client.GetCards(ctx, filter)
		if err != nil {
			return err
		}
		return printJSON(cards)

	case "card":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		card, err := client.GetCard(ctx, id)
		if err != nil {
			return err
		}
		if card == nil {
			fmt.Printf("card %d not found\n", id)
			return nil
		}
		return printJSON(card)

	case "create-card":
		var card domain.Card
		if err := json.UnmarshalRead(os.Stdin, &card); err != nil {
			return fmt.Errorf("read card payload: %w", err)
		}
		created, err := client.CreateCard(ctx, card)
		if err != nil {
			return err
		}
		return printJSON(created)

	case "update-card":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		var card domain.Card
		if err := json.UnmarshalRead(os.Stdin, &card); err != nil {
			return fmt.Errorf("read card payload: %w", err)
		}
		if err := client.UpdateCard(ctx, id, card); err != nil {
			return err
		}
		fmt.Printf("card %d updated\n", id)
		return nil

	case "delete-card":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		return client.DeleteCard(ctx, id, func() {
			fmt.Println("card deleted, back to the card list")
		})

	case "users":
		users, err := client.GetUsers(ctx)
		if err != nil {
			return err
		}
		return printJSON(users)

	case "tags":
		tags, err := client.GetTags(ctx)
		if err != nil {
			return err
		}
		return printJSON(tags)

	case "signup":
		if len(rest) != 2 {
			return fmt.Errorf("usage: cardctl signup <username> <password>")
		}
		if err := client.CreateUser(ctx, domain.UserCreate{Username: rest[0], Password: rest[1]}); err != nil {
			return err
		}
		fmt.Printf("user %s created\n", rest[0])
		return nil

	case "login":
		if len(rest) != 2 {
			return fmt.Errorf("usage: cardctl login <username> <password>")
		}
		result, err := client.LogIn(ctx, domain.Credentials{Username: rest[0], Password: rest[1]})
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Printf("logged in as %s (user %d)\n", rest[0], result.UserID)
		return nil

	case "logout":
		return client.LogOut(func() {
			fmt.Println("logged out")
		})

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func parseCardFilter(args []string) (cardmaker.CardFilter, error) {
	fs := flag.NewFlagSet("cards", flag.ContinueOnError)
	user := fs.Int64("user", 0, "Filter by author user ID")
	cardType := fs.Int64("type", 0, "Filter by card type ID")
	tags := fs.String("tags", "", "Filter by tag names, comma separated")
	if err := fs.Parse(args); err != nil {
		return cardmaker.CardFilter{}, err
	}

	filter := cardmaker.CardFilter{
		UserID:     *user,
		CardTypeID: *cardType,
	}
	if *tags != "" {
		filter.Tags = strings.Split(*tags, ",")
	}
	return filter, nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one card ID argument")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid card ID %q: %w", args[0], err)
	}
	return id, nil
}

func printJSON(v any) error {
	return json.MarshalWrite(os.Stdout, v, jsontext.WithIndent("  "))
}
