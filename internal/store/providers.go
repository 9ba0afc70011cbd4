package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/roach88/runmseed/internal/profile"
)

// providerNamespace seeds deterministic provider UUIDs so that applying the
// same profile twice yields the same identities.
var providerNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("runm/provider/v1"))

// ProviderUUID returns the UUID a provider of the given name is stored with.
func ProviderUUID(name string) string {
	return uuid.NewSHA1(providerNamespace, []byte(name)).String()
}

// AppliedGroup counts the rows written for one provider group.
type AppliedGroup struct {
	ID           int64
	Name         string
	Providers    int
	Inventories  int
	Capabilities int
	Traits       int
}

// ProviderGroups accesses provider_groups and writes whole groups.
type ProviderGroups struct {
	q Querier
}

// Apply writes a provider group with its distances, providers, inventories,
// capabilities and traits. Resource class, capability and distance codes
// must already exist in the lookup tables.
func (r ProviderGroups) Apply(ctx context.Context, g profile.ProviderGroup) (AppliedGroup, error) {
	res, err := r.q.ExecContext(ctx, "INSERT INTO provider_groups (name) VALUES (?)", g.Name)
	if err != nil {
		return AppliedGroup{}, &OperationError{Op: "insert", Table: "provider_groups", Key: g.Name, Err: err}
	}
	groupID, err := res.LastInsertId()
	if err != nil {
		return AppliedGroup{}, &OperationError{Op: "insert", Table: "provider_groups", Key: g.Name, Err: err}
	}
	applied := AppliedGroup{ID: groupID, Name: g.Name}

	for _, typeCode := range g.DistanceTypes() {
		d, err := Distances{q: r.q}.GetByCode(ctx, typeCode, g.Distances[typeCode])
		if err != nil {
			return AppliedGroup{}, err
		}
		_, err = r.q.ExecContext(ctx,
			"INSERT INTO provider_group_distances (group_id, distance_type_id, distance_id) VALUES (?, ?, ?)",
			groupID, d.TypeID, d.ID,
		)
		if err != nil {
			return AppliedGroup{}, &OperationError{Op: "insert", Table: "provider_group_distances", Key: g.Name + "/" + typeCode, Err: err}
		}
	}

	ids := newCodeCache(r.q)
	for _, p := range g.Providers {
		if err := r.applyProvider(ctx, ids, groupID, p); err != nil {
			return AppliedGroup{}, err
		}
		applied.Providers++
		applied.Inventories += len(p.Inventories)
		applied.Capabilities += len(p.Capabilities)
		applied.Traits += len(p.Traits)
	}
	return applied, nil
}

func (r ProviderGroups) applyProvider(ctx context.Context, ids *codeCache, groupID int64, p profile.Provider) error {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO providers (uuid, name, provider_type, group_id) VALUES (?, ?, ?, ?)",
		ProviderUUID(p.Name), p.Name, p.Type, groupID,
	)
	if err != nil {
		return &OperationError{Op: "insert", Table: "providers", Key: p.Name, Err: err}
	}
	providerID, err := res.LastInsertId()
	if err != nil {
		return &OperationError{Op: "insert", Table: "providers", Key: p.Name, Err: err}
	}

	for _, code := range p.ResourceClasses() {
		rcID, err := ids.get(ctx, "resource_classes", code)
		if err != nil {
			return err
		}
		inv := p.Inventories[code]
		_, err = r.q.ExecContext(ctx, `
			INSERT INTO inventories
			(provider_id, resource_class_id, total, reserved, min_unit, max_unit, step_size, allocation_ratio)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			providerID,
			rcID,
			inv.Total,
			inv.Reserved,
			inv.MinUnit,
			inv.MaxUnit,
			inv.StepSize,
			inv.AllocationRatio.String(),
		)
		if err != nil {
			return &OperationError{Op: "insert", Table: "inventories", Key: p.Name + "/" + code, Err: err}
		}
	}

	for _, code := range p.Capabilities {
		capID, err := ids.get(ctx, "capabilities", code)
		if err != nil {
			return err
		}
		_, err = r.q.ExecContext(ctx,
			"INSERT INTO provider_capabilities (provider_id, capability_id) VALUES (?, ?)",
			providerID, capID,
		)
		if err != nil {
			return &OperationError{Op: "insert", Table: "provider_capabilities", Key: p.Name + "/" + code, Err: err}
		}
	}

	for _, trait := range p.Traits {
		_, err := r.q.ExecContext(ctx,
			"INSERT INTO provider_traits (provider_id, trait) VALUES (?, ?)",
			providerID, trait,
		)
		if err != nil {
			return &OperationError{Op: "insert", Table: "provider_traits", Key: p.Name + "/" + trait, Err: err}
		}
	}
	return nil
}

// List returns the names of all provider groups in insertion order.
func (r ProviderGroups) List(ctx context.Context) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT name FROM provider_groups ORDER BY id ASC")
	if err != nil {
		return nil, &OperationError{Op: "select", Table: "provider_groups", Err: err}
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &OperationError{Op: "scan", Table: "provider_groups", Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &OperationError{Op: "select", Table: "provider_groups", Err: err}
	}
	return names, nil
}

// ProviderRow is a stored provider.
type ProviderRow struct {
	ID    int64
	UUID  string
	Name  string
	Type  string
	Group string
}

// InventoryRow is a stored inventory, keyed by resource class code.
type InventoryRow struct {
	ResourceClass   string
	Total           int64
	Reserved        int64
	MinUnit         int64
	MaxUnit         int64
	StepSize        int64
	AllocationRatio string
}

// Providers reads back applied providers.
type Providers struct {
	q Querier
}

// ListByGroup returns the providers of a group in insertion order.
func (r Providers) ListByGroup(ctx context.Context, group string) ([]ProviderRow, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT p.id, p.uuid, p.name, p.provider_type, g.name
		FROM providers p
		JOIN provider_groups g ON g.id = p.group_id
		WHERE g.name = ?
		ORDER BY p.id ASC
	`, group)
	if err != nil {
		return nil, &OperationError{Op: "select", Table: "providers", Key: group, Err: err}
	}
	defer rows.Close()

	out := []ProviderRow{}
	for rows.Next() {
		var p ProviderRow
		if err := rows.Scan(&p.ID, &p.UUID, &p.Name, &p.Type, &p.Group); err != nil {
			return nil, &OperationError{Op: "scan", Table: "providers", Key: group, Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &OperationError{Op: "select", Table: "providers", Key: group, Err: err}
	}
	return out, nil
}

// Inventories returns a provider's inventories ordered by resource class code.
func (r Providers) Inventories(ctx context.Context, provider string) ([]InventoryRow, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT rc.code, i.total, i.reserved, i.min_unit, i.max_unit, i.step_size, i.allocation_ratio
		FROM inventories i
		JOIN providers p ON p.id = i.provider_id
		JOIN resource_classes rc ON rc.id = i.resource_class_id
		WHERE p.name = ?
		ORDER BY rc.code ASC
	`, provider)
	if err != nil {
		return nil, &OperationError{Op: "select", Table: "inventories", Key: provider, Err: err}
	}
	defer rows.Close()

	out := []InventoryRow{}
	for rows.Next() {
		var inv InventoryRow
		if err := rows.Scan(&inv.ResourceClass, &inv.Total, &inv.Reserved, &inv.MinUnit, &inv.MaxUnit, &inv.StepSize, &inv.AllocationRatio); err != nil {
			return nil, &OperationError{Op: "scan", Table: "inventories", Key: provider, Err: err}
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, &OperationError{Op: "select", Table: "inventories", Key: provider, Err: err}
	}
	return out, nil
}

// Capabilities returns a provider's capability codes, sorted.
func (r Providers) Capabilities(ctx context.Context, provider string) ([]string, error) {
	return r.strings(ctx, "provider_capabilities", provider, `
		SELECT c.code
		FROM provider_capabilities pc
		JOIN providers p ON p.id = pc.provider_id
		JOIN capabilities c ON c.id = pc.capability_id
		WHERE p.name = ?
		ORDER BY c.code ASC
	`)
}

// Traits returns a provider's traits, sorted.
func (r Providers) Traits(ctx context.Context, provider string) ([]string, error) {
	return r.strings(ctx, "provider_traits", provider, `
		SELECT t.trait
		FROM provider_traits t
		JOIN providers p ON p.id = t.provider_id
		WHERE p.name = ?
		ORDER BY t.trait ASC
	`)
}

func (r Providers) strings(ctx context.Context, table, provider, query string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, query, provider)
	if err != nil {
		return nil, &OperationError{Op: "select", Table: table, Key: provider, Err: err}
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, &OperationError{Op: "scan", Table: table, Key: provider, Err: err}
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &OperationError{Op: "select", Table: table, Key: provider, Err: err}
	}
	return out, nil
}

// codeCache memoizes lookup-table ids while a group is applied.
type codeCache struct {
	q   Querier
	ids map[string]int64
}

func newCodeCache(q Querier) *codeCache {
	return &codeCache{q: q, ids: make(map[string]int64)}
}

func (c *codeCache) get(ctx context.Context, table, code string) (int64, error) {
	key := table + "\x00" + code
	if id, ok := c.ids[key]; ok {
		return id, nil
	}
	row, err := getCode(ctx, c.q, table, code)
	if err != nil {
		return 0, err
	}
	c.ids[key] = row.ID
	return row.ID, nil
}
