package domain

// SessionState represents the request state machine position for one tab.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateRequesting SessionState = "requesting"
	StateCompleted  SessionState = "completed"
	StateFailed     SessionState = "failed"
)

// Signal is the ephemeral visual indicator shown to the user. It is cleared
// on page navigation independently of the stored session state.
type Signal string

const (
	SignalNone       Signal = "none"
	SignalInProgress Signal = "in-progress"
	SignalSuccess    Signal = "success"
	SignalError      Signal = "error"
)

// Session holds the durable per-tab analysis state. One session per browser
// tab, created lazily on the first analysis request. Result and Error are
// mutually exclusive; both are cleared when a new request starts.
type Session struct {
	State  SessionState
	Result *OptimizationResult
	Error  string
	Signal Signal
}

// SessionSnapshot is the read-only projection served to the display layer.
type SessionSnapshot struct {
	IsLoading bool                `json:"isLoading"`
	Result    *OptimizationResult `json:"result,omitempty"`
	Error     string              `json:"error,omitempty"`
}
