package opd

import (
	"context"
)

// Repository is the storage port for the registration collection. The
// collection is read and written whole: SaveAll overwrites whatever was
// stored before.
type Repository interface {
	Load(ctx context.Context) ([]*Registration, error)
	SaveAll(ctx context.Context, regs []*Registration) error
}
