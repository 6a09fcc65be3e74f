package database

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Config describes how to reach the storage backend.
type Config struct {
	Driver   string
	URL      string // full connection string, takes precedence over the parts below
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Debug    bool

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// ConfigFromEnv reads the BLUEPRINT_DB_* variables.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Driver:          strings.ToLower(envOr("BLUEPRINT_DB_DRIVER", DriverPostgres)),
		URL:             os.Getenv("BLUEPRINT_DB_URL"),
		Host:            os.Getenv("BLUEPRINT_DB_HOST"),
		Port:            os.Getenv("BLUEPRINT_DB_PORT"),
		Username:        os.Getenv("BLUEPRINT_DB_USERNAME"),
		Password:        os.Getenv("BLUEPRINT_DB_PASSWORD"),
		Database:        os.Getenv("BLUEPRINT_DB_DATABASE"),
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
	}

	if v := os.Getenv("BLUEPRINT_DB_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BLUEPRINT_DB_DEBUG %q: %w", v, err)
		}
		cfg.Debug = debug
	}

	if _, err := cfg.DSN(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN returns the driver-specific connection string.
func (c Config) DSN() (string, error) {
	switch c.Driver {
	case DriverPostgres:
		dsn := c.URL
		if dsn == "" {
			dsn = c.postgresKeywordDSN()
		}
		if _, err := pgx.ParseConfig(dsn); err != nil {
			return "", fmt.Errorf("invalid postgres connection string: %w", err)
		}
		return dsn, nil

	case DriverMySQL:
		if c.URL != "" {
			parsed, err := mysql.ParseDSN(c.URL)
			if err != nil {
				return "", fmt.Errorf("invalid mysql connection string: %w", err)
			}
			parsed.ParseTime = true
			return parsed.FormatDSN(), nil
		}
		mc := mysql.NewConfig()
		mc.User = c.Username
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(orDefault(c.Host, "localhost"), orDefault(c.Port, "3306"))
		mc.DBName = c.Database
		mc.ParseTime = true
		return mc.FormatDSN(), nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
}

// Dialector returns the GORM dialector for the configured driver.
func (c Config) Dialector() (gorm.Dialector, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	if c.Driver == DriverMySQL {
		return gormmysql.Open(dsn), nil
	}
	return postgres.Open(dsn), nil
}

// postgresKeywordDSN builds a keyword/value string, leaving out empty parts so
// libpq defaults apply.
func (c Config) postgresKeywordDSN() string {
	parts := []string{}
	for _, kv := range [][2]string{
		{"host", c.Host},
		{"port", c.Port},
		{"user", c.Username},
		{"password", c.Password},
		{"dbname", c.Database},
	} {
		if kv[1] == "" {
			continue
		}
		parts = append(parts, kv[0]+"="+quoteDSNValue(kv[1]))
	}
	parts = append(parts, "sslmode=disable")
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, " '\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func envOr(key, fallback string) string {
	return orDefault(os.Getenv(key), fallback)
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
