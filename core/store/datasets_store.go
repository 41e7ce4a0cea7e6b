package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"opsradar/core/incidents"
)

var ErrNotFound = errors.New("not found")

// DatasetKindIncidents is the only dataset kind currently ingested. The
// column exists so a second pipeline (service requests) can land without a
// schema change.
const DatasetKindIncidents = "incidents"

// Dataset is the header row of one stored upload.
type Dataset struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Filename   string    `json:"filename"`
	Kind       string    `json:"kind"`
	RowCount   int       `json:"row_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type DatasetsStore interface {
	SaveDataset(ctx context.Context, name, filename, kind string, set []incidents.Incident) (Dataset, error)
	GetDataset(ctx context.Context, id string) (Dataset, error)
	ListDatasets(ctx context.Context) ([]Dataset, error)
	DeleteDataset(ctx context.Context, id string) error
	// DeleteOlderThan removes datasets uploaded before cutoff and reports
	// how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	LoadIncidents(ctx context.Context, datasetID string) ([]incidents.Incident, error)
}

type datasetsStore struct {
	db *sql.DB
}

func NewDatasetsStore(db *sql.DB) DatasetsStore {
	return &datasetsStore{db: db}
}

func (s *datasetsStore) SaveDataset(ctx context.Context, name, filename, kind string, set []incidents.Incident) (Dataset, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return Dataset{}, fmt.Errorf("dataset id: %w", err)
	}
	ds := Dataset{
		ID:         id.String(),
		Name:       name,
		Filename:   filename,
		Kind:       kind,
		RowCount:   len(set),
		UploadedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Dataset{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO datasets(id, name, filename, kind, row_count, uploaded_at)
		VALUES(?, ?, ?, ?, ?, ?)`,
		ds.ID, ds.Name, ds.Filename, ds.Kind, ds.RowCount, ds.UploadedAt); err != nil {
		return Dataset{}, fmt.Errorf("insert dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dataset_incidents(
			dataset_id, number, opened, short_description, caller, priority,
			state, category, subcategory, assignment_group, assigned_to,
			updated, updated_by, business_impact, response_time, location,
			comments_and_work_notes)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Dataset{}, fmt.Errorf("prepare rows: %w", err)
	}
	defer stmt.Close()
	for i, in := range set {
		if _, err := stmt.ExecContext(ctx,
			ds.ID, in.Number, in.Opened, in.ShortDescription, in.Caller, in.Priority,
			in.State, in.Category, in.Subcategory, in.AssignmentGroup, in.AssignedTo,
			in.Updated, in.UpdatedBy, in.BusinessImpact, in.ResponseTime, in.Location,
			in.CommentsAndWorkNotes); err != nil {
			return Dataset{}, fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func (s *datasetsStore) GetDataset(ctx context.Context, id string) (Dataset, error) {
	var ds Dataset
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, filename, kind, row_count, uploaded_at
		FROM datasets WHERE id=?`, id).
		Scan(&ds.ID, &ds.Name, &ds.Filename, &ds.Kind, &ds.RowCount, &ds.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, ErrNotFound
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("get dataset %s: %w", id, err)
	}
	return ds, nil
}

func (s *datasetsStore) ListDatasets(ctx context.Context) ([]Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, filename, kind, row_count, uploaded_at
		FROM datasets ORDER BY uploaded_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	out := make([]Dataset, 0)
	for rows.Next() {
		var ds Dataset
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.Filename, &ds.Kind, &ds.RowCount, &ds.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

func (s *datasetsStore) DeleteDataset(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete dataset %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *datasetsStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE uploaded_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune datasets: %w", err)
	}
	return res.RowsAffected()
}

func (s *datasetsStore) LoadIncidents(ctx context.Context, datasetID string) ([]incidents.Incident, error) {
	if _, err := s.GetDataset(ctx, datasetID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, opened, short_description, caller, priority, state,
			category, subcategory, assignment_group, assigned_to, updated,
			updated_by, business_impact, response_time, location,
			comments_and_work_notes
		FROM dataset_incidents WHERE dataset_id=? ORDER BY id ASC`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("load incidents %s: %w", datasetID, err)
	}
	defer rows.Close()

	set := make([]incidents.Incident, 0)
	for rows.Next() {
		var in incidents.Incident
		if err := rows.Scan(&in.Number, &in.Opened, &in.ShortDescription, &in.Caller,
			&in.Priority, &in.State, &in.Category, &in.Subcategory, &in.AssignmentGroup,
			&in.AssignedTo, &in.Updated, &in.UpdatedBy, &in.BusinessImpact,
			&in.ResponseTime, &in.Location, &in.CommentsAndWorkNotes); err != nil {
			return nil, err
		}
		set = append(set, in)
	}
	return set, rows.Err()
}
