package customer

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (Customer, error) {
	var c Customer
	err := r.db.QueryRow(`SELECT id, name, whatsapp_number, created_at FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.WhatsAppNumber, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *PostgresRepository) GetByNumber(number string) (Customer, error) {
	var c Customer
	err := r.db.QueryRow(`SELECT id, name, whatsapp_number, created_at FROM customers WHERE whatsapp_number = $1`, number).
		Scan(&c.ID, &c.Name, &c.WhatsAppNumber, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Upsert(name, number string) (Customer, error) {
	var c Customer
	err := r.db.QueryRow(`INSERT INTO customers (name, whatsapp_number, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (whatsapp_number) DO UPDATE SET name = EXCLUDED.name
        RETURNING id, name, whatsapp_number, created_at`,
		name, number, time.Now().UTC()).
		Scan(&c.ID, &c.Name, &c.WhatsAppNumber, &c.CreatedAt)
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Customer, error) {
	if len(ids) == 0 {
		return []Customer{}, nil
	}

	rows, err := r.db.Query(`SELECT id, name, whatsapp_number, created_at
		FROM customers
		WHERE id = ANY($1::int[])`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]Customer, 0, len(ids))
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.WhatsAppNumber, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
