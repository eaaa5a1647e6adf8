package model

// Notification is the ephemeral payload of one dispatch call. It is never
// persisted; the dispatcher builds it, sends it, and drops it.
type Notification struct {
	UserID string `json:"user_id" validate:"required"`
	Title  string `json:"title" validate:"required,min=1,max=120"`
	Body   string `json:"body" validate:"required,min=1,max=1024"`
	Link   string `json:"link,omitempty" validate:"omitempty,max=512"`
}

// DispatchResult aggregates per-token outcomes of one multicast send.
// Partial failure is a normal result, not an error.
type DispatchResult struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

// TokenRegistration registers one device token for a user.
type TokenRegistration struct {
	Token string `json:"token" validate:"required,min=8,max=4096"`
}
