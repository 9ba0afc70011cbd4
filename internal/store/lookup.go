package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/runmseed/internal/catalog"
)

// CodeRow is a lookup record as stored: its row id plus code and
// description.
type CodeRow struct {
	ID          int64
	Code        string
	Description string
}

// ResourceClasses accesses the resource_classes table.
type ResourceClasses struct {
	q Querier
}

// InsertBatch inserts every resource class, in order.
func (r ResourceClasses) InsertBatch(ctx context.Context, recs []catalog.ResourceClass) error {
	for _, rec := range recs {
		if err := insertCode(ctx, r.q, "resource_classes", rec.Code, rec.Description); err != nil {
			return err
		}
	}
	return nil
}

// GetByCode returns the resource class with the given code.
func (r ResourceClasses) GetByCode(ctx context.Context, code string) (CodeRow, error) {
	return getCode(ctx, r.q, "resource_classes", code)
}

// ConsumerTypes accesses the consumer_types table.
type ConsumerTypes struct {
	q Querier
}

// InsertBatch inserts every consumer type, in order.
func (r ConsumerTypes) InsertBatch(ctx context.Context, recs []catalog.ConsumerType) error {
	for _, rec := range recs {
		if err := insertCode(ctx, r.q, "consumer_types", rec.Code, rec.Description); err != nil {
			return err
		}
	}
	return nil
}

// GetByCode returns the consumer type with the given code.
func (r ConsumerTypes) GetByCode(ctx context.Context, code string) (CodeRow, error) {
	return getCode(ctx, r.q, "consumer_types", code)
}

// Capabilities accesses the capabilities table.
type Capabilities struct {
	q Querier
}

// InsertBatch inserts every capability, in order.
func (r Capabilities) InsertBatch(ctx context.Context, recs []catalog.Capability) error {
	for _, rec := range recs {
		if err := insertCode(ctx, r.q, "capabilities", rec.Code, rec.Description); err != nil {
			return err
		}
	}
	return nil
}

// GetByCode returns the capability with the given code.
func (r Capabilities) GetByCode(ctx context.Context, code string) (CodeRow, error) {
	return getCode(ctx, r.q, "capabilities", code)
}

// DistanceTypeRow is a stored distance type.
type DistanceTypeRow struct {
	ID int64
	catalog.DistanceType
}

// DistanceTypes accesses the distance_types table.
type DistanceTypes struct {
	q Querier
}

// InsertBatch inserts every distance type, in order.
func (r DistanceTypes) InsertBatch(ctx context.Context, recs []catalog.DistanceType) error {
	for _, rec := range recs {
		_, err := r.q.ExecContext(ctx,
			"INSERT INTO distance_types (code, description, generation) VALUES (?, ?, ?)",
			rec.Code, rec.Description, rec.Generation,
		)
		if err != nil {
			return &OperationError{Op: "insert", Table: "distance_types", Key: rec.Code, Err: err}
		}
	}
	return nil
}

// GetByCode returns the distance type with the given code.
func (r DistanceTypes) GetByCode(ctx context.Context, code string) (DistanceTypeRow, error) {
	var row DistanceTypeRow
	err := r.q.QueryRowContext(ctx,
		"SELECT id, code, description, generation FROM distance_types WHERE code = ?", code,
	).Scan(&row.ID, &row.Code, &row.Description, &row.Generation)
	if err != nil {
		return DistanceTypeRow{}, selectError("distance_types", code, err)
	}
	return row, nil
}

// DistanceRow is a stored distance.
type DistanceRow struct {
	ID     int64
	TypeID int64
	catalog.Distance
}

// Distances accesses the distances table.
type Distances struct {
	q Querier
}

// InsertBatch inserts every distance, resolving its type by code. The
// distance types must already exist.
func (r Distances) InsertBatch(ctx context.Context, recs []catalog.Distance) error {
	typeIDs := make(map[string]int64)
	for _, rec := range recs {
		typeID, ok := typeIDs[rec.Type]
		if !ok {
			dt, err := DistanceTypes{q: r.q}.GetByCode(ctx, rec.Type)
			if err != nil {
				return err
			}
			typeID = dt.ID
			typeIDs[rec.Type] = typeID
		}

		_, err := r.q.ExecContext(ctx,
			"INSERT INTO distances (type_id, code, position, description) VALUES (?, ?, ?, ?)",
			typeID, rec.Code, rec.Position, rec.Description,
		)
		if err != nil {
			return &OperationError{Op: "insert", Table: "distances", Key: rec.Type + "/" + rec.Code, Err: err}
		}
	}
	return nil
}

// GetByCode returns the distance with the given code within a distance type.
func (r Distances) GetByCode(ctx context.Context, typeCode, code string) (DistanceRow, error) {
	var row DistanceRow
	err := r.q.QueryRowContext(ctx, `
		SELECT d.id, d.type_id, t.code, d.code, d.position, d.description
		FROM distances d
		JOIN distance_types t ON t.id = d.type_id
		WHERE t.code = ? AND d.code = ?
	`, typeCode, code).Scan(&row.ID, &row.TypeID, &row.Type, &row.Code, &row.Position, &row.Description)
	if err != nil {
		return DistanceRow{}, selectError("distances", typeCode+"/"+code, err)
	}
	return row, nil
}

// ListByType returns the distances of a distance type ordered by position,
// closest first. Returns an empty slice (not nil) if the type has none.
func (r Distances) ListByType(ctx context.Context, typeCode string) ([]catalog.Distance, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT t.code, d.code, d.position, d.description
		FROM distances d
		JOIN distance_types t ON t.id = d.type_id
		WHERE t.code = ?
		ORDER BY d.position ASC
	`, typeCode)
	if err != nil {
		return nil, &OperationError{Op: "select", Table: "distances", Key: typeCode, Err: err}
	}
	defer rows.Close()

	out := []catalog.Distance{}
	for rows.Next() {
		var d catalog.Distance
		if err := rows.Scan(&d.Type, &d.Code, &d.Position, &d.Description); err != nil {
			return nil, &OperationError{Op: "scan", Table: "distances", Key: typeCode, Err: err}
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, &OperationError{Op: "select", Table: "distances", Key: typeCode, Err: err}
	}
	return out, nil
}

// Scale loads a distance type's distances and returns their total order.
func (r Distances) Scale(ctx context.Context, typeCode string) (*catalog.Scale, error) {
	distances, err := r.ListByType(ctx, typeCode)
	if err != nil {
		return nil, err
	}
	return catalog.NewScale(typeCode, distances)
}

// insertCode inserts a code+description record into one of the simple
// lookup tables. table is always a package constant.
func insertCode(ctx context.Context, q Querier, table, code, description string) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO "+table+" (code, description) VALUES (?, ?)",
		code, description,
	)
	if err != nil {
		return &OperationError{Op: "insert", Table: table, Key: code, Err: err}
	}
	return nil
}

func getCode(ctx context.Context, q Querier, table, code string) (CodeRow, error) {
	var row CodeRow
	err := q.QueryRowContext(ctx,
		"SELECT id, code, description FROM "+table+" WHERE code = ?", code,
	).Scan(&row.ID, &row.Code, &row.Description)
	if err != nil {
		return CodeRow{}, selectError(table, code, err)
	}
	return row, nil
}

func selectError(table, key string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
	}
	return &OperationError{Op: "select", Table: table, Key: key, Err: err}
}
