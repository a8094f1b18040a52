package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q found", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CHECK (status IN ('INIT', 'PAYMENT_COMPLETED', 'ORDER_RECEIVED', 'PURCHASE_CANCELED', 'PURCHASE_CONFIRMED'))",
		"CHECK (payment_method IN ('CARD', 'BANK_TRANSFER'))",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE TABLE IF NOT EXISTS order_deliveries",
		"CHECK (status IN ('INIT', 'DELIVERY_PREPARING', 'DELIVERY_IN_PROGRESS', 'DELIVERY_COMPLETED'))",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_order_deliveries_order ON order_deliveries (order_id)",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProductsMigrationGuardsStock(t *testing.T) {
	content := readMigration(t, "*_create_products.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"CHECK (stock >= 0)",
		"CHECK (price_cents >= 0)",
		"CREATE TABLE IF NOT EXISTS delivery_policies",
		"CHECK (type IN ('free', 'paid'))",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_delivery_policies_product ON delivery_policies (product_id)",
		"DROP TABLE IF EXISTS products",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPayoutLogsMigrationEnforcesIdempotenceKey(t *testing.T) {
	content := readMigration(t, "*_create_payout_logs.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS payout_logs",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_payout_logs_order_seller ON payout_logs (order_id, seller_id)",
		"DROP TABLE IF EXISTS payout_logs",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOutboxMigrationContainsDedupeIndex(t *testing.T) {
	content := readMigration(t, "*_create_outbox.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS outbox_events",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_outbox_events_event_aggregate ON outbox_events (event_type, aggregate_type, aggregate_id)",
		"WHERE published_at IS NULL",
		"CREATE TABLE IF NOT EXISTS outbox_dlq",
		"CHECK (error_reason IN ('max_attempts', 'non_retryable'))",
		"DROP TABLE IF EXISTS outbox_events",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
