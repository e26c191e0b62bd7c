package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/migrate"
)

func TestInitMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS user_profiles",
		"CREATE TABLE IF NOT EXISTS categories",
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS product_images",
		"CREATE TABLE IF NOT EXISTS carts",
		"CREATE TABLE IF NOT EXISTS cart_items",
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE TABLE IF NOT EXISTS shipping_info",
		"CREATE TABLE IF NOT EXISTS payment_info",
		"CREATE TABLE IF NOT EXISTS payment_configs",
		"CONSTRAINT chk_carts_identity",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_cart_product",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_shipping_info_order_id",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_info_order_id",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
