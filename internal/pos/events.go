package pos

import "time"

// TopicSaleCommitted is published after a sale commit becomes durable.
// Subscribers (low-stock warnings, webhook notify, metrics) run outside the
// commit transaction and can never undo it.
const TopicSaleCommitted = "sale.committed"

type SaleCommitted struct {
	TransactionID int64
	Total         float64
	Method        string
	Items         []CartItem
	CommittedAt   time.Time
}

func (s *Service) publishSaleCommitted(evt SaleCommitted) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(TopicSaleCommitted, evt)
}
