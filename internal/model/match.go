package model

// MatchStatus is the coarse lifecycle status of a match record in the
// external store. The matchmaking collaborator writes awaiting on creation
// and ready when the second player registers; this server writes started.
type MatchStatus string

const (
	MatchAwaiting MatchStatus = "awaiting"
	MatchReady    MatchStatus = "ready"
	MatchStarted  MatchStatus = "started"
)

// Match is the persisted match record, keyed by its game code.
type Match struct {
	GameCode string      `json:"gameCode" bson:"gameCode"`
	Player1  string      `json:"player1" bson:"player1"`
	Player2  string      `json:"player2" bson:"player2"` // empty until someone joins
	Status   MatchStatus `json:"gameState" bson:"gameState"`
}
