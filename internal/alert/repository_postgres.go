package alert

import (
	"database/sql"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(a Alert) (Alert, error) {
	err := r.db.QueryRow(`INSERT INTO alerts (order_id, reason, description, created_at, resolved)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		a.OrderID, a.Reason, a.Description, a.CreatedAt, a.Resolved).
		Scan(&a.ID)
	if err != nil {
		return Alert{}, err
	}
	return a, nil
}

func (r *PostgresRepository) List(resolved *bool, skip, limit int) ([]Alert, error) {
	query := `SELECT id, order_id, reason, description, created_at, resolved, resolved_at FROM alerts`
	args := []any{}
	if resolved != nil {
		query += ` WHERE resolved = $1`
		args = append(args, *resolved)
	}
	query += ` ORDER BY created_at DESC`
	if resolved != nil {
		query += ` OFFSET $2 LIMIT $3`
	} else {
		query += ` OFFSET $1 LIMIT $2`
	}
	args = append(args, skip, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := make([]Alert, 0)
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.OrderID, &a.Reason, &a.Description,
			&a.CreatedAt, &a.Resolved, &a.ResolvedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *PostgresRepository) Resolve(id int, at time.Time) error {
	res, err := r.db.Exec(`UPDATE alerts SET resolved = TRUE, resolved_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
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

func (r *PostgresRepository) ResolveByOrderAndReason(orderID int, reason Reason, at time.Time) (int, error) {
	res, err := r.db.Exec(`UPDATE alerts SET resolved = TRUE, resolved_at = $3
		WHERE order_id = $1 AND reason = $2 AND resolved = FALSE`, orderID, reason, at)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
