package db

import (
	"fmt"
	"time"

	"curse-modpack/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// zapWriter routes GORM's log lines into the application log file.
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.Log.Warnf(format, args...)
}

// Open connects to the SQLite database at dbPath and migrates the schema.
func Open(dbPath string) (*gorm.DB, error) {
	newLogger := gormlogger.New(
		zapWriter{},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      false,
			Colorful:                  false,
		},
	)

	conn, err := gorm.Open(gormlite.Open(dbPath), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := conn.AutoMigrate(&Mod{}, &FeedState{}, &ModVersion{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}
	return conn, nil
}

// InitDatabase opens the database and stores the connection in DB.
func InitDatabase(dbPath string) error {
	conn, err := Open(dbPath)
	if err != nil {
		return err
	}
	DB = conn
	return nil
}
