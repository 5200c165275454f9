package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gatepass/visitor-management/internal/model"
)

// MySQLVisitorStore implements VisitorStore over the 'visitors' table.
type MySQLVisitorStore struct{ DB *sql.DB }

func NewMySQLVisitorStore(db *sql.DB) *MySQLVisitorStore { return &MySQLVisitorStore{DB: db} }

const visitorCols = "id, visitor_number, username, id_type, id_number, vehicle_type, vehicle_number, in_time, duration, date_of_visit, status, email, created_at"

// Create inserts the visitor and fills in its assigned ID.
func (s *MySQLVisitorStore) Create(ctx context.Context, v *model.Visitor) error {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO visitors
		(visitor_number, username, id_type, id_number, vehicle_type, vehicle_number, in_time, duration, date_of_visit, status)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		v.VisitorNumber, v.Username, v.IDType, v.IDNumber, v.VehicleType, v.VehicleNumber,
		v.InTime, v.Duration, v.DateOfVisit, v.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a visitor by id.
func (s *MySQLVisitorStore) GetByID(ctx context.Context, id uint64) (model.Visitor, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+visitorCols+" FROM visitors WHERE id=? LIMIT 1", id)
	v, err := scanVisitor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Visitor{}, ErrVisitorNotFound
	}
	return v, err
}

// ListAll returns every visitor, most recent visit date first.
func (s *MySQLVisitorStore) ListAll(ctx context.Context) ([]model.Visitor, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT "+visitorCols+" FROM visitors ORDER BY date_of_visit DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Visitor{}
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpdateStatus overwrites the status column. Zero rows affected is success,
// matching the permissive update contract.
func (s *MySQLVisitorStore) UpdateStatus(ctx context.Context, id uint64, status string) error {
	_, err := s.DB.ExecContext(ctx, "UPDATE visitors SET status=? WHERE id=?", status, id)
	return err
}

// UpdateEmail overwrites the email column unconditionally.
func (s *MySQLVisitorStore) UpdateEmail(ctx context.Context, id uint64, email string) error {
	_, err := s.DB.ExecContext(ctx, "UPDATE visitors SET email=? WHERE id=?", email, id)
	return err
}

// Delete removes a visitor. A zero-row delete is a silent no-op.
func (s *MySQLVisitorStore) Delete(ctx context.Context, id uint64) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM visitors WHERE id=?", id)
	return err
}

// FindReturning performs the exact-match returning-visitor lookup. The id
// type is pinned to aadhar, matching what the old-visitor form collects.
func (s *MySQLVisitorStore) FindReturning(ctx context.Context, username, idNumber, vehicleNumber string) (model.Visitor, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT "+visitorCols+" FROM visitors WHERE username=? AND id_type=? AND id_number=? AND vehicle_number=? LIMIT 1",
		username, model.IDTypeAadhar, idNumber, vehicleNumber)
	v, err := scanVisitor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Visitor{}, ErrVisitorNotFound
	}
	return v, err
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanVisitor(sc scanner) (model.Visitor, error) {
	var (
		v     model.Visitor
		email sql.NullString
	)
	err := sc.Scan(&v.ID, &v.VisitorNumber, &v.Username, &v.IDType, &v.IDNumber,
		&v.VehicleType, &v.VehicleNumber, &v.InTime, &v.Duration, &v.DateOfVisit,
		&v.Status, &email, &v.CreatedAt)
	if err != nil {
		return model.Visitor{}, err
	}
	v.Email = email.String
	return v, nil
}
