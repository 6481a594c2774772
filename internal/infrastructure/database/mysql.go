package database

import (
	"time"

	"github.com/eklundh/tidflow/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewMySQLConnection opens the pooled gorm handle and migrates the schema.
func NewMySQLConnection(dsn string, debug bool) (*gorm.DB, error) {
	logMode := gormlogger.Warn
	if debug {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Employee{},
		&model.Project{},
		&model.TimeEntry{},
		&model.Break{},
		&model.ProjectAllocation{},
		&model.DrivingJournalEntry{},
		&model.TripEvent{},
		&model.ApprovalRequest{},
		&model.Notification{},
	); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
