package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/josiaO/SmartDalaliTZ/internal/logger"
	"github.com/josiaO/SmartDalaliTZ/internal/model"
)

type UserWriter interface {
	Create(ctx context.Context, u *model.User) error
}

type PropertyWriter interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p *model.Property) error
	SyncIDSequence(ctx context.Context) error
}

// Apply inserts the demo accounts and, when the catalogue is empty, the demo
// listings. Existing accounts are left untouched.
func Apply(ctx context.Context, users UserWriter, properties PropertyWriter) error {
	accounts, err := Users(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("seed: hash passwords: %w", err)
	}
	for i := range accounts {
		if err := users.Create(ctx, &accounts[i]); err != nil {
			return fmt.Errorf("seed: user %s: %w", accounts[i].Email, err)
		}
	}

	n, err := properties.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count properties: %w", err)
	}
	if n > 0 {
		logger.Log.Infof("seed: %d properties already present, skipping fixtures", n)
		return nil
	}

	fixtures := Properties()
	for i := range fixtures {
		if err := properties.Create(ctx, &fixtures[i]); err != nil {
			return fmt.Errorf("seed: property %d: %w", fixtures[i].ID, err)
		}
	}
	if err := properties.SyncIDSequence(ctx); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.Log.Infof("seed: inserted %d users and %d properties", len(accounts), len(fixtures))
	return nil
}
