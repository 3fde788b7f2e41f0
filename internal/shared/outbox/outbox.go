package outbox

// Row statuses shared by every outbox table. A row is written pending in the
// same transaction as the state change it describes and only leaves pending
// once the relay has delivered it or parked it as dead.
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusDead      = "dead"
)

// IsTerminal reports whether the relay should stop picking the row up.
func IsTerminal(status string) bool {
	return status == StatusDelivered || status == StatusDead
}
