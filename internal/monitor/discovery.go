package monitor

import (
	"context"
	"fmt"

	"github.com/chicken-dinner-club/pubg-tracker/internal/pubgapi"
	"github.com/chicken-dinner-club/pubg-tracker/internal/storage"
)

// MatchGroup aggregates the tracked player names whose recent-match lists
// contained one match id. Transient; groups live for a single cycle.
type MatchGroup struct {
	MatchID string
	Players []string
}

// discover performs one batched player lookup for the tracked roster and
// groups the returned recent match ids by match.
//
// Groups come back in discovery order: tracked-player order first, then each
// player's most-recent-first match list. Each player contributes at most
// maxPerPlayer match ids.
func discover(ctx context.Context, api upstreamAPI, players []storage.TrackedPlayer, maxPerPlayer int) ([]MatchGroup, error) {
	if len(players) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}

	upstream, err := api.GetPlayersByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("player lookup failed: %w", err)
	}

	return groupByMatch(upstream, maxPerPlayer), nil
}

// groupByMatch builds match groups from player lookups, preserving encounter
// order. A match shared by several tracked players yields a single group
// listing all of them.
func groupByMatch(players []pubgapi.PlayerInfo, maxPerPlayer int) []MatchGroup {
	var order []string
	grouped := make(map[string][]string)

	for _, player := range players {
		matchIDs := player.MatchIDs
		if len(matchIDs) > maxPerPlayer {
			matchIDs = matchIDs[:maxPerPlayer]
		}
		for _, matchID := range matchIDs {
			if _, seen := grouped[matchID]; !seen {
				order = append(order, matchID)
			}
			grouped[matchID] = append(grouped[matchID], player.Name)
		}
	}

	groups := make([]MatchGroup, 0, len(order))
	for _, matchID := range order {
		groups = append(groups, MatchGroup{MatchID: matchID, Players: grouped[matchID]})
	}
	return groups
}

// filterUnprocessed drops every group whose match already has a ledger
// record. This is the sole deduplication check.
func filterUnprocessed(ctx context.Context, ledger storage.MatchLedger, groups []MatchGroup) ([]MatchGroup, error) {
	fresh := make([]MatchGroup, 0, len(groups))
	for _, group := range groups {
		processed, err := ledger.IsProcessed(ctx, group.MatchID)
		if err != nil {
			return nil, fmt.Errorf("processed check failed for %q: %w", group.MatchID, err)
		}
		if !processed {
			fresh = append(fresh, group)
		}
	}
	return fresh, nil
}
