// Package database creates the MySQL database a new WordPress project points at.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DefaultPort is used when the host does not name one
const DefaultPort = "3306"

// defaultConnectTimeout bounds dialing the server
const defaultConnectTimeout = 10 * time.Second

// Credentials identifies the server and account used to create the database
type Credentials struct {
	Host     string
	User     string
	Password string
}

// OpenFunc opens a database handle for a driver and DSN, matching sql.Open
type OpenFunc func(driverName, dsn string) (*sql.DB, error)

// Provisioner creates databases on a MySQL server
type Provisioner struct {
	open OpenFunc
}

// NewProvisioner creates a Provisioner using the go-sql-driver/mysql driver
func NewProvisioner() *Provisioner {
	return &Provisioner{open: sql.Open}
}

// NewProvisionerWithOpener creates a Provisioner with a custom opener, e.g. sqlmock
func NewProvisionerWithOpener(open OpenFunc) *Provisioner {
	return &Provisioner{open: open}
}

// QuoteIdentifier quotes name for use as a MySQL identifier.
// Embedded backticks are doubled, so any name is safe to splice into a statement.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// CreateStatement returns the statement that creates name when missing
func CreateStatement(name string) string {
	return "CREATE DATABASE IF NOT EXISTS " + QuoteIdentifier(name)
}

// DSN builds the driver connection string. No default schema is selected,
// since the schema is what is being created.
func DSN(creds Credentials) string {
	cfg := mysql.NewConfig()
	cfg.User = creds.User
	cfg.Passwd = creds.Password
	cfg.Net = "tcp"
	cfg.Addr = hostWithPort(creds.Host)
	cfg.Timeout = defaultConnectTimeout
	return cfg.FormatDSN()
}

// CreateIfNotExists connects with creds and creates the database name.
// The connection is closed on every return path.
func (p *Provisioner) CreateIfNotExists(ctx context.Context, creds Credentials, name string) (err error) {
	if name == "" {
		return fmt.Errorf("database name is empty")
	}

	db, err := p.open("mysql", DSN(creds))
	if err != nil {
		return fmt.Errorf("failed to open connection to %s: %w", creds.Host, err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close connection: %w", cerr)
		}
	}()
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to %s as %s: %w", creds.Host, creds.User, err)
	}

	if _, err := db.ExecContext(ctx, CreateStatement(name)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return nil
}

// hostWithPort appends DefaultPort unless host already names a port
func hostWithPort(host string) string {
	if host == "" {
		host = "localhost"
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, DefaultPort)
}
