package db

import (
	"errors"

	_ "github.com/mattn/go-sqlite3"
	"xorm.io/xorm"
	"xorm.io/xorm/log"
	"xorm.io/xorm/names"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Connection struct {
	engine *xorm.Engine
}

// Close the database.
func (conn *Connection) Close() error {
	return conn.engine.Close()
}

// ShowSQL toggles logging of every statement the engine runs.
func (conn *Connection) ShowSQL(on bool) {
	conn.engine.ShowSQL(on)
	if on {
		conn.engine.Logger().SetLevel(log.LOG_DEBUG)
	} else {
		conn.engine.Logger().SetLevel(log.LOG_WARNING)
	}
}

// New returns a database connection for the sqlite db file at the given path.
// If it does not exist it is created.
func New(path string) (*Connection, error) {
	db, err := xorm.NewEngine("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.Logger().SetLevel(log.LOG_WARNING)
	db.SetMapper(names.GonicMapper{})
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := db.Sync2(new(Session), new(Delivery)); err != nil {
		db.Close()
		return nil, err
	}
	return &Connection{db}, nil
}
