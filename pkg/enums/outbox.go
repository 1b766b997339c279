package enums

// OutboxEventType names the domain events emitted through the outbox.
type OutboxEventType string

const (
	EventOrderCreated       OutboxEventType = "order.created"
	EventOrderStatusChanged OutboxEventType = "order.status_changed"
)

// OutboxAggregateType names the aggregate an event belongs to.
type OutboxAggregateType string

const (
	AggregateSale OutboxAggregateType = "sale"
)

// String implements fmt.Stringer.
func (o OutboxEventType) String() string {
	return string(o)
}

// String implements fmt.Stringer.
func (o OutboxAggregateType) String() string {
	return string(o)
}
