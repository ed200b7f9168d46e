package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/goccy/go-json"

	"github.com/lazharichir/cardcounter/cards"
	"github.com/lazharichir/cardcounter/game"
	"github.com/lazharichir/cardcounter/server/connection"
	"github.com/lazharichir/cardcounter/server/events"
)

// Reply names sent back to the client that issued a command
const (
	ReplySnapshot  = "SNAPSHOT"
	ReplyCard      = "CARD"
	ReplyShoeEmpty = "SHOE_EMPTY"
	ReplyError     = "ERROR"
)

// DrawResult is the reply to a draw
type DrawResult struct {
	Card     *cards.Card   `json:"card,omitempty"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// ErrorResponse carries a command failure
type ErrorResponse struct {
	Error string `json:"error"`
}

// CommandRouter routes incoming commands to the appropriate handler
type CommandRouter struct {
	session *Session
	connMgr *connection.Manager
}

// NewCommandRouter creates a new command router
func NewCommandRouter(session *Session, connMgr *connection.Manager) *CommandRouter {
	return &CommandRouter{
		session: session,
		connMgr: connMgr,
	}
}

// HandleCommand processes an incoming command message
func (r *CommandRouter) HandleCommand(ctx context.Context, client *connection.Client, message []byte) error {
	err := r.route(ctx, client, message)
	if err != nil {
		r.reply(client, ReplyError, ErrorResponse{Error: err.Error()})
	}
	return err
}

func (r *CommandRouter) route(ctx context.Context, client *connection.Client, message []byte) error {
	// First determine command type
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		return err
	}

	switch baseCmd.Name {
	case DrawCard{}.Name():
		return r.handleDrawCard(ctx, client)

	case Reshuffle{}.Name():
		r.reply(client, ReplySnapshot, r.session.Reshuffle(ctx))
		return nil

	case ReloadSettings{}.Name():
		r.reply(client, ReplySnapshot, r.session.ReloadSettings(ctx))
		return nil

	case GetSnapshot{}.Name():
		r.reply(client, ReplySnapshot, r.session.Snapshot())
		return nil

	case UpdateSettings{}.Name():
		var cmd UpdateSettings
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleUpdateSettings(ctx, client, cmd)

	default:
		return fmt.Errorf("unknown command type %q", baseCmd.Name)
	}
}

func (r *CommandRouter) handleDrawCard(ctx context.Context, client *connection.Client) error {
	card, snapshot, err := r.session.Draw(ctx)
	if errors.Is(err, cards.ErrShoeEmpty) {
		r.reply(client, ReplyShoeEmpty, DrawResult{Snapshot: snapshot})
		return nil
	}
	if err != nil {
		return err
	}

	r.reply(client, ReplyCard, DrawResult{Card: &card, Snapshot: snapshot})
	return nil
}

func (r *CommandRouter) handleUpdateSettings(ctx context.Context, client *connection.Client, cmd UpdateSettings) error {
	settings, err := cmd.ToSettings()
	if err != nil {
		return err
	}

	snapshot, err := r.session.UpdateSettings(ctx, settings)
	if err != nil {
		return err
	}
	r.reply(client, ReplySnapshot, snapshot)
	return nil
}

func (r *CommandRouter) reply(client *connection.Client, name string, payload any) {
	data, err := events.Encode(name, payload)
	if err != nil {
		log.Println("Failed to marshal reply:", err)
		return
	}
	r.connMgr.SendToClient(client.ID, data)
}
