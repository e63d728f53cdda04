// database/bootstrap.go
package database

import (
	"fmt"
	"strings"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"farmwork/entities"
)

// Open opens the SQLite database at path, migrates the schema and installs the
// overlap guards. Use "file::memory:" for a throwaway database.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	// one writer at a time; for :memory: a second connection would be a second database
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate creates or updates every table the service owns or reads.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entities.Zone{},
		&entities.LandPlot{},
		&entities.Worker{},
		&entities.Assignment{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if err := installOverlapGuards(db); err != nil {
		return fmt.Errorf("overlap guards: %w", err)
	}
	return nil
}

// The triggers are the storage-level form of the no-double-booking rule: even a
// writer that skips the service's conflict check cannot store two live
// assignments whose [start_time, end_time) windows intersect on one plot and day.
// Times are stored by the driver as fixed-width UTC text, so text comparison
// orders them correctly.
const overlapPredicate = `
    SELECT RAISE(ABORT, 'assignment time overlap')
    WHERE EXISTS (
        SELECT 1 FROM assignments a
        WHERE a.land_plot_id = NEW.land_plot_id
          AND a.work_date = NEW.work_date
          AND a.status <> 'CANCELLED'
          AND a.id <> NEW.id
          AND a.start_time < NEW.end_time
          AND NEW.start_time < a.end_time
    );`

var overlapTriggers = []string{
	`CREATE TRIGGER IF NOT EXISTS assignments_no_overlap_insert
BEFORE INSERT ON assignments
WHEN NEW.status <> 'CANCELLED'
BEGIN` + overlapPredicate + `
END;`,
	`CREATE TRIGGER IF NOT EXISTS assignments_no_overlap_update
BEFORE UPDATE OF land_plot_id, work_date, start_time, end_time, status ON assignments
WHEN NEW.status <> 'CANCELLED'
BEGIN` + overlapPredicate + `
END;`,
}

func installOverlapGuards(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range overlapTriggers {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
