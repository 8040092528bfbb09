package postgres

const insertOrderSQL = `
INSERT INTO orders (customer_id, created_at_utc, total_amount, currency)
VALUES ($1, $2, $3, $4)
RETURNING id`

const insertOrderItemSQL = `
INSERT INTO order_items (order_id, sku, quantity, unit_price)
VALUES ($1, $2, $3, $4)`
