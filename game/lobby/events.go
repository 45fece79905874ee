package lobby

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/warchest-gg/server/cache"
)

// Event types published on a lobby's channel.
const (
	EventPlayerJoined = "player_joined"
	EventTeamAdded    = "team_added"
	EventBudgetSet    = "budget_set"
	EventPurchase     = "purchase"
	EventSell         = "sell"
	EventArmyCleared  = "army_cleared"
	EventPlayerReset  = "player_reset"
	EventLobbyClosed  = "lobby_closed"
)

// Event is one lobby-scoped notification, delivered to SSE clients
// watching that lobby.
type Event struct {
	Type     string      `json:"type"`
	LobbyID  int64       `json:"lobby_id"`
	TeamID   int64       `json:"team_id,omitempty"`
	PlayerID int64       `json:"player_id,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// Channel is the pub/sub channel name for a lobby.
func Channel(lobbyID int64) string {
	return fmt.Sprintf("lobby:%d", lobbyID)
}

// PublishEvent marshals and publishes an event on the lobby's channel.
// Publish failures are returned so callers can log them; they never
// abort the operation that produced the event.
func PublishEvent(ctx context.Context, ps cache.PubSub, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ps.Publish(ctx, Channel(ev.LobbyID), string(payload))
}
