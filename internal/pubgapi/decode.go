package pubgapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// parseTimestamp parses an upstream RFC3339 timestamp. Upstream timestamps are
// not contractually stable, so a malformed value falls back to the provided
// default instead of failing the caller.
func parseTimestamp(s string, fallback time.Time) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fallback
	}
	return t
}

// decodePlayers extracts the player resources (and their match id lists) from
// a players lookup response. Non-player resources and resources whose
// attributes fail to decode are skipped.
func decodePlayers(doc *document, logger *slog.Logger) ([]PlayerInfo, error) {
	var resources []resource
	if err := json.Unmarshal(doc.Data, &resources); err != nil {
		return nil, fmt.Errorf("failed to decode player resources: %w", err)
	}

	players := make([]PlayerInfo, 0, len(resources))
	for _, res := range resources {
		if res.Type != "player" {
			continue
		}
		var attrs playerAttributes
		if err := json.Unmarshal(res.Attributes, &attrs); err != nil {
			logger.Warn("skipping malformed player resource",
				slog.String("player_id", res.ID),
				slog.Any("error", err))
			continue
		}
		now := time.Now().UTC()
		players = append(players, PlayerInfo{
			AccountID:    res.ID,
			Name:         attrs.Name,
			ShardID:      attrs.ShardID,
			PatchVersion: attrs.PatchVersion,
			TitleID:      attrs.TitleID,
			CreatedAt:    parseTimestamp(attrs.CreatedAt, now),
			UpdatedAt:    parseTimestamp(attrs.UpdatedAt, now),
			MatchIDs:     res.refIDs("matches"),
		})
	}
	return players, nil
}

// buildMatch assembles a MatchRecord from a match document's primary resource
// and its included participant/roster/asset side-resources.
//
// The decode is deliberately lenient: a roster referencing an absent
// participant simply omits it, and missing attributes default to zero values.
func buildMatch(doc *document, logger *slog.Logger) (*MatchRecord, error) {
	var primary resource
	if err := json.Unmarshal(doc.Data, &primary); err != nil {
		return nil, fmt.Errorf("failed to decode match resource: %w", err)
	}
	if primary.Type != "match" {
		return nil, fmt.Errorf("unexpected primary resource type %q", primary.Type)
	}

	var attrs matchAttributes
	if err := json.Unmarshal(primary.Attributes, &attrs); err != nil {
		return nil, fmt.Errorf("failed to decode match attributes: %w", err)
	}

	match := &MatchRecord{
		MatchID:     primary.ID,
		MapName:     attrs.MapName,
		GameMode:    attrs.GameMode,
		CreatedAt:   parseTimestamp(attrs.CreatedAt, time.Now().UTC()),
		Duration:    attrs.Duration,
		CustomMatch: attrs.IsCustomMatch,
		ShardID:     attrs.ShardID,
	}

	// Single pass over the included graph, indexing by id per type.
	participantsByID := make(map[string]ParticipantRecord)
	rostersByID := make(map[string]resource)
	for _, res := range doc.Included {
		switch res.Type {
		case "participant":
			var pa participantAttributes
			if err := json.Unmarshal(res.Attributes, &pa); err != nil {
				logger.Warn("skipping malformed participant resource",
					slog.String("participant_id", res.ID),
					slog.Any("error", err))
				continue
			}
			participantsByID[res.ID] = ParticipantRecord{
				ID:       res.ID,
				Name:     pa.Stats.Name,
				PlayerID: pa.Stats.PlayerID,
				Stats:    pa.Stats.ParticipantStats,
			}
		case "roster":
			rostersByID[res.ID] = res
		case "asset":
			var aa assetAttributes
			if err := json.Unmarshal(res.Attributes, &aa); err != nil {
				continue
			}
			if aa.Name == "telemetry" {
				// Last telemetry asset wins; depends on upstream included
				// ordering and is kept for compatibility with the upstream
				// contract as observed.
				match.TelemetryURL = aa.URL
			}
		}
	}

	// Roster iteration order comes from the match's relationship list, not
	// from included order.
	for _, rosterID := range primary.refIDs("rosters") {
		res, ok := rostersByID[rosterID]
		if !ok {
			continue
		}
		var ra rosterAttributes
		if err := json.Unmarshal(res.Attributes, &ra); err != nil {
			logger.Warn("skipping malformed roster resource",
				slog.String("roster_id", rosterID),
				slog.Any("error", err))
			continue
		}
		roster := RosterRecord{
			ID:     res.ID,
			Rank:   ra.Stats.Rank,
			TeamID: ra.Stats.TeamID,
		}
		for _, participantID := range res.refIDs("participants") {
			participant, ok := participantsByID[participantID]
			if !ok {
				continue
			}
			roster.Participants = append(roster.Participants, participant)
			match.Participants = append(match.Participants, participant)
		}
		match.Rosters = append(match.Rosters, roster)
	}

	return match, nil
}
