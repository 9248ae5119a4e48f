package usecase

import (
	"context"
	"errors"
)

// ErrOracleParse marks an oracle reply that could not be turned into a
// structured suggestion. Callers always fall back to the deterministic
// builder; this never becomes a user-visible failure.
var ErrOracleParse = errors.New("oracle response not parseable")

// RecommendationOracle is the optional language-model collaborator.
// Everything it returns is untrusted until validated against the
// fantasy rules.
type RecommendationOracle interface {
	SuggestSquad(ctx context.Context, req OracleSquadRequest) (OracleSquadSuggestion, error)
}

// OracleCandidate is one pool entry summarized for the oracle.
type OracleCandidate struct {
	PlayerID int     `json:"player_id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Team     string  `json:"team"`
	Price    float64 `json:"price"`
	Points   int     `json:"points"`
	Form     float64 `json:"form"`
}

type OracleSquadRequest struct {
	Budget     float64           `json:"budget"`
	Formation  map[string]int    `json:"formation"`
	Candidates []OracleCandidate `json:"candidates"`
}

// OracleSquadSuggestion is the parsed oracle output: picked player ids
// plus free-text reasoning. Ids not present in the pool are rejected
// downstream.
type OracleSquadSuggestion struct {
	PlayerIDs []int  `json:"player_ids"`
	Reasoning string `json:"reasoning"`
}
