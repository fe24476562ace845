package order

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

const orderColumns = `id, customer_id, status, payment_status, sentiment, automation_enabled,
	product_name, amount, tracking_id, carrier, feedback_rating, feedback_text, created_at,
	payment_reminder_1_sent_at, payment_reminder_2_sent_at, last_customer_reply_at,
	shipped_at, delivered_at`

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var ord Order
	err := row.Scan(&ord.ID, &ord.CustomerID, &ord.Status, &ord.PaymentStatus, &ord.Sentiment,
		&ord.AutomationEnabled, &ord.ProductName, &ord.Amount, &ord.TrackingID, &ord.Carrier,
		&ord.FeedbackRating, &ord.FeedbackText, &ord.CreatedAt,
		&ord.PaymentReminder1SentAt, &ord.PaymentReminder2SentAt, &ord.LastCustomerReplyAt,
		&ord.ShippedAt, &ord.DeliveredAt)
	return ord, err
}

func (r *PostgresRepository) Create(ord Order) (Order, error) {
	row := r.db.QueryRow(`INSERT INTO orders
		(customer_id, status, payment_status, sentiment, automation_enabled, product_name, amount, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+orderColumns,
		ord.CustomerID, ord.Status, ord.PaymentStatus, ord.Sentiment, ord.AutomationEnabled,
		ord.ProductName, ord.Amount, ord.CreatedAt)
	return scanOrder(row)
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) Update(ord Order) error {
	res, err := r.db.Exec(`UPDATE orders SET
		status = $2, payment_status = $3, sentiment = $4, automation_enabled = $5,
		tracking_id = $6, carrier = $7, feedback_rating = $8, feedback_text = $9,
		payment_reminder_1_sent_at = $10, payment_reminder_2_sent_at = $11,
		last_customer_reply_at = $12, shipped_at = $13, delivered_at = $14
		WHERE id = $1`,
		ord.ID, ord.Status, ord.PaymentStatus, ord.Sentiment, ord.AutomationEnabled,
		ord.TrackingID, ord.Carrier, ord.FeedbackRating, ord.FeedbackText,
		ord.PaymentReminder1SentAt, ord.PaymentReminder2SentAt,
		ord.LastCustomerReplyAt, ord.ShippedAt, ord.DeliveredAt)
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

func (r *PostgresRepository) List(skip, limit int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) ListSilent(cutoff time.Time) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders
		WHERE automation_enabled = TRUE
		  AND last_customer_reply_at IS NULL
		  AND created_at < $1`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) LatestByCustomer(customerID int) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, customerID)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) ListDueForReminder(n int, cutoff, floor time.Time) ([]Order, error) {
	col := "payment_reminder_1_sent_at"
	if n == 2 {
		col = "payment_reminder_2_sent_at"
	}

	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders
		WHERE payment_status = $1
		  AND automation_enabled = TRUE
		  AND `+col+` IS NULL
		  AND created_at <= $2
		  AND created_at > $3`, PaymentPending, cutoff, floor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}
