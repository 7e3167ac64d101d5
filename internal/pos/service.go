// Package pos implements the sales core of the register: cart validation,
// the atomic sale commit, reporting reads and receipt rendering.
package pos

import (
	"github.com/asaskevich/EventBus"
	"gorm.io/gorm"
)

// Service runs every sales core operation against an explicit database
// handle; there is no ambient global connection.
type Service struct {
	db  *gorm.DB
	bus EventBus.Bus
}

// NewService creates a sales core service. bus may be nil when no
// subscribers are interested in committed sales.
func NewService(db *gorm.DB, bus EventBus.Bus) *Service {
	return &Service{db: db, bus: bus}
}

// DB exposes the underlying handle for the boundary layer.
func (s *Service) DB() *gorm.DB {
	return s.db
}
