package message

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(msg Message) (Message, error) {
	err := r.db.QueryRow(`INSERT INTO message_logs
		(order_id, message_type, message_content, sent_at, is_incoming, sentiment, whatsapp_message_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id`,
		msg.OrderID, msg.Type, msg.Content, msg.SentAt, msg.IsIncoming, msg.Sentiment, msg.WhatsAppMessageID).
		Scan(&msg.ID)
	if err != nil {
		return Message{}, err
	}
	return msg, nil
}

func (r *PostgresRepository) List(orderID *int, skip, limit int) ([]Message, error) {
	query := `SELECT id, order_id, message_type, message_content, sent_at, is_incoming, sentiment, whatsapp_message_id
		FROM message_logs`
	args := []any{}
	if orderID != nil {
		query += ` WHERE order_id = $1`
		args = append(args, *orderID)
	}
	query += ` ORDER BY sent_at DESC`
	if orderID != nil {
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

	messages := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.OrderID, &m.Type, &m.Content, &m.SentAt,
			&m.IsIncoming, &m.Sentiment, &m.WhatsAppMessageID); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PostgresRepository) CountOutgoing(orderID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM message_logs WHERE order_id = $1 AND is_incoming = FALSE`, orderID).
		Scan(&count)
	return count, err
}

func (r *PostgresRepository) ExistsBySID(sid string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM message_logs WHERE whatsapp_message_id = $1)`, sid).
		Scan(&exists)
	return exists, err
}
