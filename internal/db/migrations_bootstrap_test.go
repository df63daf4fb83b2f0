package db

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "decode-clean.db")
	database := openSQLiteForMigrationBootstrapTest(t, databasePath)

	expectedTables := []string{
		"users",
		"intervention_periods",
		"user_habits",
		"daily_summaries",
		"daily_mood_entries",
		"notifications",
		"completion_summaries",
	}
	for _, table := range expectedTables {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist after migrations", table)
		}
	}

	assertPeriodsSchemaReconciled(t, database)
	assertUniqueIndexExists(t, database, "uidx_habit_user_name")
	assertUniqueIndexExists(t, database, "uidx_summary_user_date")
	assertUniqueIndexExists(t, database, "uidx_mood_user_date")
	assertUniqueIndexExists(t, database, "uidx_completion_period")
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "decode-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)

	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForMigrationBootstrapTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestEmbeddedMigrationVersionsMatchAcrossDialects(t *testing.T) {
	sqliteVersions := embeddedMigrationVersionsForTest(t, DriverSQLite)
	postgresVersions := embeddedMigrationVersionsForTest(t, DriverPostgres)

	if len(sqliteVersions) == 0 {
		t.Fatal("expected at least one embedded sqlite migration")
	}
	if !reflect.DeepEqual(sqliteVersions, postgresVersions) {
		t.Fatalf("expected identical versions per dialect, sqlite=%v postgres=%v", sqliteVersions, postgresVersions)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "dsn"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func openSQLiteForMigrationBootstrapTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func assertPeriodsSchemaReconciled(t *testing.T, database *gorm.DB) {
	t.Helper()

	columns := loadTableColumns(t, database, "intervention_periods")
	expectedColumns := []string{
		"id",
		"user_id",
		"intervention_name",
		"selected_habits",
		"start_date",
		"planned_end_date",
		"actual_end_date",
		"status",
		"notes",
	}

	for _, column := range expectedColumns {
		if _, exists := columns[column]; !exists {
			t.Fatalf("expected intervention_periods.%s column to exist after migrations", column)
		}
	}
}

func assertUniqueIndexExists(t *testing.T, database *gorm.DB, indexName string) {
	t.Helper()

	indexSQL := loadSQLiteObjectSQL(t, database, "index", indexName)
	definition := strings.ToLower(strings.Join(strings.Fields(indexSQL), ""))
	if definition == "" {
		t.Fatalf("expected index %s definition to exist", indexName)
	}
	if !strings.Contains(definition, "unique") {
		t.Fatalf("expected index %s to be unique, got %q", indexName, indexSQL)
	}
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	expectedVersions := embeddedMigrationVersionsForTest(t, DriverSQLite)
	actualVersions := make([]string, 0)

	var rows []struct {
		Version string `gorm:"column:version"`
	}
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY version ASC`).Scan(&rows).Error; err != nil {
		t.Fatalf("load applied migration versions: %v", err)
	}
	for _, row := range rows {
		actualVersions = append(actualVersions, row.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}

func loadSQLiteObjectSQL(t *testing.T, database *gorm.DB, objectType string, objectName string) string {
	t.Helper()

	var row struct {
		SQL string `gorm:"column:sql"`
	}
	if err := database.Raw(
		`SELECT sql FROM sqlite_master WHERE type = ? AND name = ?`,
		objectType,
		objectName,
	).Scan(&row).Error; err != nil {
		t.Fatalf("load sqlite master sql for %s %s: %v", objectType, objectName, err)
	}
	return row.SQL
}

func embeddedMigrationVersionsForTest(t *testing.T, dialect string) []string {
	t.Helper()

	migrations, err := loadEmbeddedMigrations(dialect)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}

	versions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		versions = append(versions, migration.Version)
	}
	return versions
}
