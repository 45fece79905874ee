// Package ledger owns the money: every purchase, sell, and army clear
// runs through a database transaction here so the team budget and the
// purchase rows can never drift apart.
package ledger

import (
	"context"
	"errors"

	"github.com/warchest-gg/server/cache"
	"github.com/warchest-gg/server/game/army"
	"github.com/warchest-gg/server/game/catalog"
	"github.com/warchest-gg/server/game/lobby"
	"github.com/warchest-gg/server/game/pricing"
	"github.com/warchest-gg/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPlayerNotFound   = errors.New("ledger: player not found")
	ErrItemNotFound     = errors.New("ledger: unknown item")
	ErrPurchaseNotFound = errors.New("ledger: purchase not found")
	ErrLobbyClosed      = errors.New("ledger: lobby closed")

	// errBudgetRace is returned when the guarded debit hits a budget
	// that moved between the validation read and the write.
	errBudgetRace = errors.New("ledger: budget changed during purchase")
)

// Service executes purchases and sells against the team budget.
type Service struct {
	db     *gorm.DB
	cat    *catalog.Catalog
	lobby  *lobby.Service
	pubsub cache.PubSub
	logger *zap.Logger
}

func NewService(db *gorm.DB, cat *catalog.Catalog, lobbySvc *lobby.Service, ps cache.PubSub, logger *zap.Logger) *Service {
	return &Service{db: db, cat: cat, lobby: lobbySvc, pubsub: ps, logger: logger}
}

// BuyRequest is one proposed purchase.
type BuyRequest struct {
	ItemID     string
	ClanCastle bool
	TargetHero catalog.Hero
}

// BuyResult carries the validator's decision plus, when approved, the
// created purchase row and the team's remaining budget.
type BuyResult struct {
	Decision        army.Decision
	Purchase        *model.Purchase
	RemainingBudget int64
}

// Buy validates and, if approved, commits one purchase. Validation and
// the budget debit run in one transaction so two players cannot spend
// the same gold.
func (svc *Service) Buy(ctx context.Context, playerID int64, req BuyRequest) (*BuyResult, error) {
	it, ok := svc.cat.ByID(req.ItemID)
	if !ok {
		return nil, ErrItemNotFound
	}

	var result BuyResult
	var lobbyID int64
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		player, team, err := loadPlayerTeam(tx, playerID)
		if err != nil {
			return err
		}
		lobbyID = player.LobbyID
		if err := requireOpenLobby(tx, player.LobbyID); err != nil {
			return err
		}

		snap, err := snapshotFor(tx, player, team)
		if err != nil {
			return err
		}

		decision := army.Validate(army.Request{
			Item:       it,
			ClanCastle: req.ClanCastle,
			TargetHero: req.TargetHero,
		}, snap, svc.cat)
		result.Decision = decision
		result.RemainingBudget = team.Budget
		if decision.Outcome != army.Approved {
			return nil
		}

		if decision.Price > 0 {
			res := tx.Model(&model.Team{}).
				Where("id = ? AND budget >= ?", team.ID, decision.Price).
				Update("budget", gorm.Expr("budget - ?", decision.Price))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errBudgetRace
			}
		}

		purchase := &model.Purchase{
			PlayerID:     player.ID,
			TeamID:       team.ID,
			ItemID:       it.ID,
			ClanCastle:   req.ClanCastle,
			EquippedHero: equippedHeroFor(it, req),
			PricePaid:    decision.Price,
		}
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}
		result.Purchase = purchase
		result.RemainingBudget = team.Budget - decision.Price
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Decision.Outcome == army.Approved {
		svc.afterMutation(ctx, lobbyID, lobby.Event{
			Type:     lobby.EventPurchase,
			LobbyID:  lobbyID,
			TeamID:   result.Purchase.TeamID,
			PlayerID: playerID,
			Data: map[string]interface{}{
				"item_id":     it.ID,
				"clan_castle": req.ClanCastle,
				"price":       result.Decision.Price,
			},
		})
	}
	return &result, nil
}

// SellResult reports the refund credited back to the team.
type SellResult struct {
	Refund          int64
	RemainingBudget int64
}

// Sell removes the player's most recent copy of the item and refunds
// the marginal price at the post-removal count. Clan Castle purchases
// were free and refund nothing.
func (svc *Service) Sell(ctx context.Context, playerID int64, itemID string, clanCastle bool) (*SellResult, error) {
	it, ok := svc.cat.ByID(itemID)
	if !ok {
		return nil, ErrItemNotFound
	}

	var result SellResult
	var lobbyID, teamID int64
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		player, team, err := loadPlayerTeam(tx, playerID)
		if err != nil {
			return err
		}
		lobbyID, teamID = player.LobbyID, team.ID
		if err := requireOpenLobby(tx, player.LobbyID); err != nil {
			return err
		}

		var purchase model.Purchase
		if err := tx.Where("player_id = ? AND item_id = ? AND clan_castle = ?",
			playerID, itemID, clanCastle).
			Order("id DESC").First(&purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseNotFound
			}
			return err
		}
		if err := tx.Delete(&purchase).Error; err != nil {
			return err
		}

		var refund int64
		if !clanCastle {
			var remaining int64
			if err := tx.Model(&model.Purchase{}).
				Where("team_id = ? AND item_id = ? AND clan_castle = ?", team.ID, itemID, false).
				Count(&remaining).Error; err != nil {
				return err
			}
			refund = pricing.PriceOf(it, int(remaining))
		}
		result.Refund = refund
		result.RemainingBudget = team.Budget

		if refund > 0 {
			return creditBudget(tx, team, refund, &result.RemainingBudget)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.afterMutation(ctx, lobbyID, lobby.Event{
		Type:     lobby.EventSell,
		LobbyID:  lobbyID,
		TeamID:   teamID,
		PlayerID: playerID,
		Data: map[string]interface{}{
			"item_id":     itemID,
			"clan_castle": clanCastle,
			"refund":      result.Refund,
		},
	})
	return &result, nil
}

// ClearArmy deletes every purchase the player holds and refunds the
// bulk value of their normal-army copies at post-removal team counts.
// Clan Castle rows vanish without a refund.
func (svc *Service) ClearArmy(ctx context.Context, playerID int64) (*SellResult, error) {
	var result SellResult
	var lobbyID, teamID int64
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		player, team, err := loadPlayerTeam(tx, playerID)
		if err != nil {
			return err
		}
		lobbyID, teamID = player.LobbyID, team.ID
		if err := requireOpenLobby(tx, player.LobbyID); err != nil {
			return err
		}

		refund, err := svc.dropAllPurchases(tx, playerID, team.ID)
		if err != nil {
			return err
		}

		result.Refund = refund
		result.RemainingBudget = team.Budget
		if refund > 0 {
			return creditBudget(tx, team, refund, &result.RemainingBudget)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.afterMutation(ctx, lobbyID, lobby.Event{
		Type:     lobby.EventArmyCleared,
		LobbyID:  lobbyID,
		TeamID:   teamID,
		PlayerID: playerID,
		Data:     map[string]int64{"refund": result.Refund},
	})
	return &result, nil
}

// ResetPlayer removes a player from the war entirely: their purchases
// are refunded with ClearArmy's recount and the player row is deleted,
// so the name and team slot free up for someone else.
func (svc *Service) ResetPlayer(ctx context.Context, playerID int64) (*SellResult, error) {
	var result SellResult
	var lobbyID, teamID int64
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		player, team, err := loadPlayerTeam(tx, playerID)
		if err != nil {
			return err
		}
		lobbyID, teamID = player.LobbyID, team.ID
		if err := requireOpenLobby(tx, player.LobbyID); err != nil {
			return err
		}

		refund, err := svc.dropAllPurchases(tx, playerID, team.ID)
		if err != nil {
			return err
		}
		if err := tx.Delete(player).Error; err != nil {
			return err
		}

		result.Refund = refund
		result.RemainingBudget = team.Budget
		if refund > 0 {
			return creditBudget(tx, team, refund, &result.RemainingBudget)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.afterMutation(ctx, lobbyID, lobby.Event{
		Type:     lobby.EventPlayerReset,
		LobbyID:  lobbyID,
		TeamID:   teamID,
		PlayerID: playerID,
		Data:     map[string]int64{"refund": result.Refund},
	})
	return &result, nil
}

// dropAllPurchases deletes every purchase the player holds and returns
// the refund. Per item: the team held n copies, k of them the player's.
// Removing them refunds the marginal prices of positions n-k .. n-1.
// Clan Castle rows vanish without a refund.
func (svc *Service) dropAllPurchases(tx *gorm.DB, playerID, teamID int64) (int64, error) {
	var mine []model.Purchase
	if err := tx.Where("player_id = ?", playerID).Find(&mine).Error; err != nil {
		return 0, err
	}

	myCounts := make(map[string]int)
	for _, p := range mine {
		if !p.ClanCastle {
			myCounts[p.ItemID]++
		}
	}
	var refund int64
	for itemID, k := range myCounts {
		it, ok := svc.cat.ByID(itemID)
		if !ok {
			continue
		}
		var n int64
		if err := tx.Model(&model.Purchase{}).
			Where("team_id = ? AND item_id = ? AND clan_castle = ?", teamID, itemID, false).
			Count(&n).Error; err != nil {
			return 0, err
		}
		refund += pricing.BulkTotal(it, int(n)) - pricing.BulkTotal(it, int(n)-k)
	}

	if err := tx.Where("player_id = ?", playerID).Delete(&model.Purchase{}).Error; err != nil {
		return 0, err
	}
	return refund, nil
}

// PlayerArmy returns the player's purchases as validator-shaped rows,
// for army views and link encoding.
func (svc *Service) PlayerArmy(ctx context.Context, playerID int64) ([]army.Purchase, error) {
	var player model.Player
	if err := svc.db.WithContext(ctx).First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	var rows []model.Purchase
	if err := svc.db.WithContext(ctx).
		Where("player_id = ?", playerID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toArmyPurchases(rows), nil
}

func (svc *Service) afterMutation(ctx context.Context, lobbyID int64, ev lobby.Event) {
	if err := lobby.PublishEvent(ctx, svc.pubsub, ev); err != nil {
		svc.logger.Warn("publish ledger event failed",
			zap.String("type", ev.Type), zap.Error(err))
	}
	if err := svc.lobby.Touch(ctx, lobbyID); err != nil {
		svc.logger.Warn("lobby touch failed", zap.Int64("lobby_id", lobbyID), zap.Error(err))
	}
	if err := svc.lobby.RefreshLeaderboard(ctx, lobbyID); err != nil {
		svc.logger.Warn("leaderboard refresh failed", zap.Int64("lobby_id", lobbyID), zap.Error(err))
	}
}

func loadPlayerTeam(tx *gorm.DB, playerID int64) (*model.Player, *model.Team, error) {
	var player model.Player
	if err := tx.First(&player, playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPlayerNotFound
		}
		return nil, nil, err
	}
	var team model.Team
	if err := tx.First(&team, player.TeamID).Error; err != nil {
		return nil, nil, err
	}
	return &player, &team, nil
}

func requireOpenLobby(tx *gorm.DB, lobbyID int64) error {
	var lob model.Lobby
	if err := tx.First(&lob, lobbyID).Error; err != nil {
		return err
	}
	if lob.Status != model.LobbyOpen {
		return ErrLobbyClosed
	}
	return nil
}

func snapshotFor(tx *gorm.DB, player *model.Player, team *model.Team) (army.Snapshot, error) {
	var teamRows []model.Purchase
	if err := tx.Where("team_id = ?", team.ID).Find(&teamRows).Error; err != nil {
		return army.Snapshot{}, err
	}
	snap := army.Snapshot{
		TeamPurchases: toArmyPurchases(teamRows),
		TeamBudget:    team.Budget,
	}
	for _, row := range teamRows {
		if row.PlayerID == player.ID {
			snap.PlayerPurchases = append(snap.PlayerPurchases, toArmyPurchase(row))
		}
	}
	return snap, nil
}

func toArmyPurchases(rows []model.Purchase) []army.Purchase {
	out := make([]army.Purchase, len(rows))
	for i, row := range rows {
		out[i] = toArmyPurchase(row)
	}
	return out
}

func toArmyPurchase(row model.Purchase) army.Purchase {
	return army.Purchase{
		ItemID:       row.ItemID,
		ClanCastle:   row.ClanCastle,
		EquippedHero: catalog.Hero(row.EquippedHero),
	}
}

func equippedHeroFor(it *catalog.Item, req BuyRequest) string {
	if req.ClanCastle {
		return ""
	}
	switch it.Category {
	case catalog.CategoryEquipment:
		return string(it.HeroAffinity)
	case catalog.CategoryPet:
		return string(req.TargetHero)
	}
	return ""
}

func creditBudget(tx *gorm.DB, team *model.Team, refund int64, remaining *int64) error {
	newBudget := team.Budget + refund
	if newBudget > team.InitialBudget {
		newBudget = team.InitialBudget
	}
	*remaining = newBudget
	return tx.Model(&model.Team{}).Where("id = ?", team.ID).
		Update("budget", newBudget).Error
}
