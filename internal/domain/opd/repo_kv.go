package opd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hms/hms/internal/platform/kvstore"
)

// kvRepo persists the registration collection as a single JSON document in
// the key-value store under a well-known key.
type kvRepo struct {
	store kvstore.Store
	key   string
}

// NewKVRepo creates a Repository backed by the given key-value store.
func NewKVRepo(store kvstore.Store, key string) Repository {
	return &kvRepo{store: store, key: key}
}

func (r *kvRepo) Load(ctx context.Context) ([]*Registration, error) {
	data, err := r.store.Read(ctx, r.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		// Nothing registered yet
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.key, err)
	}

	var regs []*Registration
	if err := json.Unmarshal(data, &regs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.key, err)
	}
	return regs, nil
}

func (r *kvRepo) SaveAll(ctx context.Context, regs []*Registration) error {
	if regs == nil {
		regs = []*Registration{}
	}
	data, err := json.Marshal(regs)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.key, err)
	}
	if err := r.store.Write(ctx, r.key, data); err != nil {
		return fmt.Errorf("write %s: %w", r.key, err)
	}
	return nil
}
