package queue

// BookingConfirmedEvent is published after a reservation transaction
// commits. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	EventID     string `json:"event_id"` // unique per publish, assigned by the publisher
	BookingID   uint64 `json:"booking_id"`
	ClassID     uint64 `json:"class_id"`
	ClassName   string `json:"class_name,omitempty"`
	Instructor  string `json:"instructor,omitempty"`
	StartsAt    string `json:"starts_at,omitempty"`
	UserID      uint64 `json:"user_id"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ConfirmedAt string `json:"confirmed_at"`
}
