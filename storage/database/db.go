// Package database opens, creates and migrates the postgres database of the school records.
package database

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/hazekiller/gyan/core"
	appfs "github.com/hazekiller/gyan/fs"
)

// MigrationsDir is the directory of the embedded migrations.
const MigrationsDir = "migrations"

type pinger interface {
	PingContext(ctx context.Context) error
}

var sleepFunc = time.Sleep // mockable

// dataSourceName is the connection URL of dbName, as the admin user when admin is set.
func dataSourceName(dbc core.DatabaseConfig, dbName string, admin bool) string {
	user := url.UserPassword(dbc.User, dbc.Password)
	if admin && dbc.AdminUser != "" {
		user = url.UserPassword(dbc.AdminUser, dbc.AdminPassword)
	}

	sslMode := "require"
	if dbc.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   dbc.Engine,
		User:     user,
		Host:     dbc.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func open(dbc core.DatabaseConfig, dbName string, admin bool) (*sql.DB, error) {
	db, err := sql.Open(dbc.Engine, dataSourceName(dbc, dbName, admin))
	if err != nil {
		return nil, errors.Wrap(err, "opening "+dbName)
	}
	if err = ping(db, dbc); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Open opens the app database and waits for it to be reachable.
func Open(conf *core.Config) (*sql.DB, error) {
	return open(conf.Database, conf.Database.Name, false)
}

// ping tries dbc.PingAttempts times, waiting dbc.PingBackoff longer after each failure.
func ping(db pinger, dbc core.DatabaseConfig) error {
	attempts := dbc.PingAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = db.PingContext(context.Background()); err == nil {
			return nil
		}
		if i < attempts {
			sleepFunc(time.Duration(i) * dbc.PingBackoff)
		}
	}
	return errors.Wrapf(err, "database unreachable after %d attempts", attempts)
}

func exists(db *sql.DB, query string, arg string) (bool, error) {
	var found bool
	err := db.QueryRow(query, arg).Scan(&found)
	if errors.Cause(err) == sql.ErrNoRows {
		return false, nil
	}
	return found, err
}

func createAppUser(db *sql.DB, dbc core.DatabaseConfig) error {
	if dbc.User == "" {
		return nil
	}
	found, err := exists(db, "SELECT true FROM pg_roles WHERE rolname = $1", dbc.User)
	if err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if found {
		return nil
	}
	// CREATE USER takes no bind parameters
	q := "CREATE USER " + pq.QuoteIdentifier(dbc.User) + " CREATEDB ENCRYPTED PASSWORD " + pq.QuoteLiteral(dbc.Password)
	_, err = db.Exec(q)
	return errors.Wrap(err, "creating app user")
}

func createDB(db *sql.DB, dbc core.DatabaseConfig) error {
	found, err := exists(db, "SELECT true FROM pg_database WHERE datname = $1", dbc.Name)
	if err != nil {
		return errors.Wrap(err, "checking database")
	}
	if found {
		return nil
	}
	_, err = db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbc.Name))
	return errors.Wrap(err, "creating database")
}

// CreateIfNotExist creates the app user (as admin) then the app database (as the app user).
func CreateIfNotExist(conf *core.Config) error {
	adminDB, err := open(conf.Database, "postgres", true)
	if err != nil {
		return err
	}
	err = createAppUser(adminDB, conf.Database)
	_ = adminDB.Close()
	if err != nil {
		return err
	}

	db, err := open(conf.Database, "postgres", false)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return createDB(db, conf.Database)
}

// Migrate applies all pending migrations.
func Migrate(db *sql.DB) error {
	if err := goose.Up(db, appfs.FS, MigrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
