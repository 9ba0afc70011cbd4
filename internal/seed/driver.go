package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/runmseed/internal/catalog"
	"github.com/roach88/runmseed/internal/ctxlog"
	"github.com/roach88/runmseed/internal/profile"
	"github.com/roach88/runmseed/internal/store"
)

// Step names, in the order a full run reports them.
const (
	StepReset           = "resetting resource PoC database"
	StepResourceClasses = "creating resource classes"
	StepConsumerTypes   = "creating consumer types"
	StepCapabilities    = "creating capabilities"
	StepDistanceTypes   = "creating distance types"
	StepDistances       = "creating distances"
)

// StepApplyGroup returns the step name for applying one provider group.
func StepApplyGroup(name string) string {
	return "applying provider group " + name
}

// Options selects what a run does.
type Options struct {
	// Reset wipes the database and seeds the lookup tables before the
	// profile is applied. Without it the lookup records must already exist.
	Reset bool

	// Profile is the inventory profile to apply. Required.
	Profile *profile.InventoryProfile
}

// Summary describes what a successful run wrote.
type Summary struct {
	Profile string
	Reset   bool
	Groups  []store.AppliedGroup
}

// Providers returns the number of providers written.
func (s Summary) Providers() int {
	n := 0
	for _, g := range s.Groups {
		n += g.Providers
	}
	return n
}

// Inventories returns the number of inventories written.
func (s Summary) Inventories() int {
	n := 0
	for _, g := range s.Groups {
		n += g.Inventories
	}
	return n
}

// Driver seeds a store from the catalog and an inventory profile.
type Driver struct {
	Store    *store.Store
	Resetter Resetter
	Catalog  catalog.Catalog
	Reporter Reporter
}

// NewDriver returns a driver that resets s in-process and seeds the default
// catalog.
func NewDriver(s *store.Store, r Reporter) *Driver {
	return &Driver{
		Store:    s,
		Resetter: StoreResetter{Store: s},
		Catalog:  catalog.Default(),
		Reporter: r,
	}
}

// Run executes the seeding steps. The first failing step is reported, the
// remaining steps are skipped and its error is returned as a *StepError.
func (d *Driver) Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Profile == nil {
		return Summary{}, errors.New("seed: no inventory profile")
	}
	if d.Store == nil {
		return Summary{}, errors.New("seed: no store")
	}
	if opts.Reset {
		if err := d.Catalog.Validate(); err != nil {
			return Summary{}, fmt.Errorf("seed: invalid catalog: %w", err)
		}
	}

	log := ctxlog.FromContext(ctx).With(slog.String("profile", opts.Profile.Name))
	summary := Summary{Profile: opts.Profile.Name, Reset: opts.Reset}

	if opts.Reset {
		resetter := d.Resetter
		if resetter == nil {
			resetter = StoreResetter{Store: d.Store}
		}
		if err := d.step(StepReset, func() error { return resetter.Reset(ctx) }); err != nil {
			return Summary{}, err
		}
	}

	err := d.Store.InTx(ctx, func(tx *store.Tx) error {
		if opts.Reset {
			if err := d.seedCatalog(ctx, tx); err != nil {
				return err
			}
			log.Debug("lookup records seeded",
				slog.Int("resource_classes", len(d.Catalog.ResourceClasses)),
				slog.Int("distances", len(d.Catalog.Distances)),
			)
		}

		for g := range opts.Profile.ProviderGroups() {
			var applied store.AppliedGroup
			err := d.step(StepApplyGroup(g.Name), func() error {
				var err error
				applied, err = tx.ProviderGroups().Apply(ctx, g)
				return err
			})
			if err != nil {
				return err
			}
			log.Debug("provider group applied",
				slog.String("group", applied.Name),
				slog.Int("providers", applied.Providers),
				slog.Int("inventories", applied.Inventories),
			)
			summary.Groups = append(summary.Groups, applied)
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	log.Info("seeding complete",
		slog.Int("groups", len(summary.Groups)),
		slog.Int("providers", summary.Providers()),
	)
	return summary, nil
}

func (d *Driver) seedCatalog(ctx context.Context, tx *store.Tx) error {
	c := d.Catalog
	steps := []struct {
		name string
		fn   func() error
	}{
		{StepResourceClasses, func() error { return tx.ResourceClasses().InsertBatch(ctx, c.ResourceClasses) }},
		{StepConsumerTypes, func() error { return tx.ConsumerTypes().InsertBatch(ctx, c.ConsumerTypes) }},
		{StepCapabilities, func() error { return tx.Capabilities().InsertBatch(ctx, c.Capabilities) }},
		{StepDistanceTypes, func() error { return tx.DistanceTypes().InsertBatch(ctx, c.DistanceTypes) }},
		{StepDistances, func() error { return tx.Distances().InsertBatch(ctx, c.Distances) }},
	}
	for _, s := range steps {
		if err := d.step(s.name, s.fn); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) step(name string, fn func() error) error {
	r := d.Reporter
	if r == nil {
		r = discard{}
	}
	r.Status(name)
	if err := fn(); err != nil {
		r.Fail(err)
		return &StepError{Step: name, Err: err}
	}
	r.OK()
	return nil
}
