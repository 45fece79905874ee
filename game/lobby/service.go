package lobby

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warchest-gg/server/cache"
	"github.com/warchest-gg/server/config"
	"github.com/warchest-gg/server/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrLobbyNotFound = errors.New("lobby: not found")
	ErrLobbyClosed   = errors.New("lobby: closed")
	ErrBadPasscode   = errors.New("lobby: bad moderator passcode")
	ErrTeamNotFound  = errors.New("lobby: team not found")
	ErrTooManyTeams  = errors.New("lobby: team limit reached")
	ErrTeamFull      = errors.New("lobby: team player limit reached")
	ErrNoTeams       = errors.New("lobby: at least one team required")
)

// Service manages lobby lifecycle: creation, joining, budgets, and
// the idle sweep.
type Service struct {
	db     *gorm.DB
	cache  cache.Cache
	pubsub cache.PubSub
	cfg    config.GameConfig
	logger *zap.Logger
}

func NewService(db *gorm.DB, c cache.Cache, ps cache.PubSub, cfg config.GameConfig, logger *zap.Logger) *Service {
	return &Service{db: db, cache: c, pubsub: ps, cfg: cfg, logger: logger}
}

// joinCodeTTL bounds how long a resolved join code lives in the cache.
const joinCodeTTL = time.Hour

func joinCodeKey(code string) string {
	return "joincode:" + code
}

// newJoinCode derives a short join code. Collisions are handled by
// retrying at the caller.
func newJoinCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:6])
}

// CreateLobby creates a lobby with its initial teams. The moderator
// passcode is bcrypt-hashed before storage and required for budget
// changes and closing.
func (svc *Service) CreateLobby(ctx context.Context, name, passcode string, teamNames []string) (*model.Lobby, []*model.Team, error) {
	if len(teamNames) == 0 {
		return nil, nil, ErrNoTeams
	}
	if svc.cfg.MaxTeamsPerLobby > 0 && len(teamNames) > svc.cfg.MaxTeamsPerLobby {
		return nil, nil, ErrTooManyTeams
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	lobby := &model.Lobby{
		Name:          name,
		ModeratorHash: string(hash),
		Status:        model.LobbyOpen,
		LastActiveAt:  time.Now(),
	}
	teams := make([]*model.Team, 0, len(teamNames))

	// Retry a few times in case the short join code collides.
	for attempt := 0; attempt < 3; attempt++ {
		lobby.JoinCode = newJoinCode()
		err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(lobby).Error; err != nil {
				return err
			}
			for _, tn := range teamNames {
				team := &model.Team{
					LobbyID:       lobby.ID,
					Name:          tn,
					Budget:        svc.cfg.DefaultBudget,
					InitialBudget: svc.cfg.DefaultBudget,
				}
				if err := tx.Create(team).Error; err != nil {
					return err
				}
				teams = append(teams, team)
			}
			return nil
		})
		if err == nil {
			break
		}
		lobby.ID = 0
		teams = teams[:0]
	}
	if err != nil {
		return nil, nil, err
	}

	svc.logger.Info("lobby created",
		zap.Int64("lobby_id", lobby.ID),
		zap.String("join_code", lobby.JoinCode),
		zap.Int("teams", len(teams)))
	return lobby, teams, nil
}

// Join adds a player to a team in an open lobby, looked up by join code.
func (svc *Service) Join(ctx context.Context, joinCode, playerName string, teamID int64) (*model.Player, error) {
	found, err := svc.FindByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, err
	}
	lobby := *found
	if lobby.Status != model.LobbyOpen {
		return nil, ErrLobbyClosed
	}

	player := &model.Player{LobbyID: lobby.ID, TeamID: teamID, Name: playerName}
	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team model.Team
		if err := tx.Where("id = ? AND lobby_id = ?", teamID, lobby.ID).First(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return err
		}
		if svc.cfg.MaxPlayersPerTeam > 0 {
			var count int64
			if err := tx.Model(&model.Player{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(svc.cfg.MaxPlayersPerTeam) {
				return ErrTeamFull
			}
		}
		if err := tx.Create(player).Error; err != nil {
			return err
		}
		return tx.Model(&model.Lobby{}).Where("id = ?", lobby.ID).
			Update("last_active_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}

	if err := PublishEvent(ctx, svc.pubsub, Event{
		Type:     EventPlayerJoined,
		LobbyID:  lobby.ID,
		TeamID:   teamID,
		PlayerID: player.ID,
		Data:     map[string]string{"name": playerName},
	}); err != nil {
		svc.logger.Warn("publish player_joined failed", zap.Error(err))
	}
	return player, nil
}

// AddTeam appends a team to an open lobby. Moderator only.
func (svc *Service) AddTeam(ctx context.Context, lobbyID int64, passcode, name string) (*model.Team, error) {
	lobby, err := svc.verifyModerator(ctx, lobbyID, passcode)
	if err != nil {
		return nil, err
	}
	if lobby.Status != model.LobbyOpen {
		return nil, ErrLobbyClosed
	}

	team := &model.Team{
		LobbyID:       lobbyID,
		Name:          name,
		Budget:        svc.cfg.DefaultBudget,
		InitialBudget: svc.cfg.DefaultBudget,
	}
	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if svc.cfg.MaxTeamsPerLobby > 0 {
			var count int64
			if err := tx.Model(&model.Team{}).Where("lobby_id = ?", lobbyID).Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(svc.cfg.MaxTeamsPerLobby) {
				return ErrTooManyTeams
			}
		}
		return tx.Create(team).Error
	})
	if err != nil {
		return nil, err
	}

	if err := PublishEvent(ctx, svc.pubsub, Event{
		Type:    EventTeamAdded,
		LobbyID: lobbyID,
		TeamID:  team.ID,
		Data:    map[string]string{"name": name},
	}); err != nil {
		svc.logger.Warn("publish team_added failed", zap.Error(err))
	}
	return team, nil
}

// SetBudget sets every team's budget ceiling. Spending already
// committed stays committed: remaining budget becomes the new ceiling
// minus what the team has spent, floored at zero.
func (svc *Service) SetBudget(ctx context.Context, lobbyID int64, passcode string, budget int64) error {
	if _, err := svc.verifyModerator(ctx, lobbyID, passcode); err != nil {
		return err
	}

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var teams []model.Team
		if err := tx.Where("lobby_id = ?", lobbyID).Find(&teams).Error; err != nil {
			return err
		}
		for _, team := range teams {
			remaining := budget - team.Spent()
			if remaining < 0 {
				remaining = 0
			}
			if err := tx.Model(&model.Team{}).Where("id = ?", team.ID).
				Updates(map[string]interface{}{
					"initial_budget": budget,
					"budget":         remaining,
				}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Lobby{}).Where("id = ?", lobbyID).
			Update("last_active_at", time.Now()).Error
	})
	if err != nil {
		return err
	}

	if err := PublishEvent(ctx, svc.pubsub, Event{
		Type:    EventBudgetSet,
		LobbyID: lobbyID,
		Data:    map[string]int64{"budget": budget},
	}); err != nil {
		svc.logger.Warn("publish budget_set failed", zap.Error(err))
	}
	if err := svc.RefreshLeaderboard(ctx, lobbyID); err != nil {
		svc.logger.Warn("snapshot refresh failed", zap.Int64("lobby_id", lobbyID), zap.Error(err))
	}
	return nil
}

// TeamState is one team's line in the lobby snapshot.
type TeamState struct {
	Team    model.Team     `json:"team"`
	Players []model.Player `json:"players"`
}

// State is the full lobby snapshot served to clients.
type State struct {
	Lobby model.Lobby `json:"lobby"`
	Teams []TeamState `json:"teams"`
}

// State loads the lobby with its teams and players.
func (svc *Service) State(ctx context.Context, lobbyID int64) (*State, error) {
	var lobby model.Lobby
	if err := svc.db.WithContext(ctx).First(&lobby, lobbyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLobbyNotFound
		}
		return nil, err
	}

	var teams []model.Team
	if err := svc.db.WithContext(ctx).Where("lobby_id = ?", lobbyID).Order("id").Find(&teams).Error; err != nil {
		return nil, err
	}
	var players []model.Player
	if err := svc.db.WithContext(ctx).Where("lobby_id = ?", lobbyID).Order("id").Find(&players).Error; err != nil {
		return nil, err
	}

	byTeam := make(map[int64][]model.Player)
	for _, p := range players {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
	}

	state := &State{Lobby: lobby, Teams: make([]TeamState, 0, len(teams))}
	for _, team := range teams {
		state.Teams = append(state.Teams, TeamState{Team: team, Players: byTeam[team.ID]})
	}
	return state, nil
}

// FindByJoinCode resolves a join code to its lobby. Resolved codes are
// cached so the join burst at war start skips the code scan; the lobby
// row itself is always read fresh.
func (svc *Service) FindByJoinCode(ctx context.Context, joinCode string) (*model.Lobby, error) {
	if cached, err := svc.cache.Get(ctx, joinCodeKey(joinCode)); err == nil {
		if lobbyID, perr := strconv.ParseInt(cached, 10, 64); perr == nil {
			var lobby model.Lobby
			if err := svc.db.WithContext(ctx).First(&lobby, lobbyID).Error; err == nil {
				return &lobby, nil
			}
		}
	}

	var lobby model.Lobby
	if err := svc.db.WithContext(ctx).Where("join_code = ?", joinCode).First(&lobby).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLobbyNotFound
		}
		return nil, err
	}
	if err := svc.cache.Set(ctx, joinCodeKey(joinCode),
		strconv.FormatInt(lobby.ID, 10), joinCodeTTL); err != nil {
		svc.logger.Warn("join code cache set failed", zap.Error(err))
	}
	return &lobby, nil
}

// Close marks a lobby closed. Moderator only.
func (svc *Service) Close(ctx context.Context, lobbyID int64, passcode string) error {
	lobby, err := svc.verifyModerator(ctx, lobbyID, passcode)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := svc.db.WithContext(ctx).Model(&model.Lobby{}).Where("id = ?", lobbyID).
		Updates(map[string]interface{}{
			"status":    model.LobbyClosed,
			"closed_at": &now,
		}).Error; err != nil {
		return err
	}

	// Drop the cached join code and budget hash with the lobby.
	if err := svc.cache.Del(ctx, joinCodeKey(lobby.JoinCode), budgetKey(lobbyID)); err != nil {
		svc.logger.Warn("lobby cache cleanup failed", zap.Error(err))
	}

	if err := PublishEvent(ctx, svc.pubsub, Event{
		Type:    EventLobbyClosed,
		LobbyID: lobbyID,
	}); err != nil {
		svc.logger.Warn("publish lobby_closed failed", zap.Error(err))
	}
	return nil
}

// Touch bumps the lobby's last-active timestamp so the idle sweep
// leaves it alone.
func (svc *Service) Touch(ctx context.Context, lobbyID int64) error {
	return svc.db.WithContext(ctx).Model(&model.Lobby{}).Where("id = ?", lobbyID).
		Update("last_active_at", time.Now()).Error
}

// SweepIdle closes open lobbies that have seen no activity for the
// given duration. Returns how many were closed. Registered as a
// scheduler ticker.
func (svc *Service) SweepIdle(ctx context.Context, idleFor time.Duration) (int64, error) {
	cutoff := time.Now().Add(-idleFor)
	now := time.Now()
	res := svc.db.WithContext(ctx).Model(&model.Lobby{}).
		Where("status = ? AND last_active_at < ?", model.LobbyOpen, cutoff).
		Updates(map[string]interface{}{
			"status":    model.LobbyClosed,
			"closed_at": &now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		svc.logger.Info("idle lobbies closed", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

func leaderboardKey(lobbyID int64) string {
	return fmt.Sprintf("leaderboard:%d", lobbyID)
}

func budgetKey(lobbyID int64) string {
	return fmt.Sprintf("budgets:%d", lobbyID)
}

// RefreshLeaderboard recomputes every team's spend into the cache's
// sorted set and its remaining budget into the snapshot hash.
// Registered as a scheduler ticker and also called after each committed
// purchase.
func (svc *Service) RefreshLeaderboard(ctx context.Context, lobbyID int64) error {
	var teams []model.Team
	if err := svc.db.WithContext(ctx).Where("lobby_id = ?", lobbyID).Find(&teams).Error; err != nil {
		return err
	}
	zkey := leaderboardKey(lobbyID)
	hkey := budgetKey(lobbyID)
	for _, team := range teams {
		if err := svc.cache.ZAdd(ctx, zkey, float64(team.Spent()), team.Name); err != nil {
			return err
		}
		if err := svc.cache.HSet(ctx, hkey,
			strconv.FormatInt(team.ID, 10), strconv.FormatInt(team.Budget, 10)); err != nil {
			return err
		}
	}
	return nil
}

// Budgets returns each team's remaining budget keyed by team ID. The
// cached hash serves pollers without touching the teams table; a cold
// cache falls back to the database and warms it.
func (svc *Service) Budgets(ctx context.Context, lobbyID int64) (map[int64]int64, error) {
	if fields, err := svc.cache.HGetAll(ctx, budgetKey(lobbyID)); err == nil && len(fields) > 0 {
		out := make(map[int64]int64, len(fields))
		for field, value := range fields {
			teamID, idErr := strconv.ParseInt(field, 10, 64)
			budget, valErr := strconv.ParseInt(value, 10, 64)
			if idErr != nil || valErr != nil {
				out = nil
				break
			}
			out[teamID] = budget
		}
		if out != nil {
			return out, nil
		}
	}

	var teams []model.Team
	if err := svc.db.WithContext(ctx).Where("lobby_id = ?", lobbyID).Find(&teams).Error; err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrLobbyNotFound
	}
	out := make(map[int64]int64, len(teams))
	for _, team := range teams {
		out[team.ID] = team.Budget
		if err := svc.cache.HSet(ctx, budgetKey(lobbyID),
			strconv.FormatInt(team.ID, 10), strconv.FormatInt(team.Budget, 10)); err != nil {
			svc.logger.Warn("budget cache set failed", zap.Error(err))
		}
	}
	return out, nil
}

// RefreshAllLeaderboards refreshes every open lobby's leaderboard.
func (svc *Service) RefreshAllLeaderboards(ctx context.Context) error {
	var ids []int64
	if err := svc.db.WithContext(ctx).Model(&model.Lobby{}).
		Where("status = ?", model.LobbyOpen).Pluck("id", &ids).Error; err != nil {
		return err
	}
	for _, id := range ids {
		if err := svc.RefreshLeaderboard(ctx, id); err != nil {
			svc.logger.Warn("leaderboard refresh failed",
				zap.Int64("lobby_id", id), zap.Error(err))
		}
	}
	return nil
}

// Leaderboard returns teams ordered by spend, highest first.
func (svc *Service) Leaderboard(ctx context.Context, lobbyID int64, limit int64) ([]cache.ZMember, error) {
	if limit <= 0 {
		limit = 10
	}
	return svc.cache.ZRevRangeWithScores(ctx, leaderboardKey(lobbyID), 0, limit-1)
}

func (svc *Service) verifyModerator(ctx context.Context, lobbyID int64, passcode string) (*model.Lobby, error) {
	var lobby model.Lobby
	if err := svc.db.WithContext(ctx).First(&lobby, lobbyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLobbyNotFound
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(lobby.ModeratorHash), []byte(passcode)) != nil {
		return nil, ErrBadPasscode
	}
	return &lobby, nil
}
