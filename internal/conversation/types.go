package conversation

import "time"

// #region roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// #endregion roles

// #region turn
// Turn is one message of a conversation. Agent and Quality are set on
// assistant turns only.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Agent     string    `json:"agent,omitempty"`
	Quality   *float64  `json:"quality,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// #endregion turn

// #region store-interface
// Store keeps ordered turn histories keyed by conversation id.
// Implementations must be safe for concurrent use.
type Store interface {
	Append(id string, turns ...Turn) error
	History(id string) ([]Turn, error)
}

// #endregion store-interface
