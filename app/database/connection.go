package database

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"modernc.org/sqlite"
)

// sqliteLowerFunc folds case with Unicode rules; SQLite's built-in LOWER only
// handles ASCII.
const sqliteLowerFunc = "unicode_lower"

func init() {
	err := sqlite.RegisterDeterministicScalarFunction(sqliteLowerFunc, 1,
		func(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case nil:
				return nil, nil
			case string:
				return strings.ToLower(v), nil
			case []byte:
				return strings.ToLower(string(v)), nil
			default:
				return v, nil
			}
		})
	if err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", sqliteLowerFunc, err))
	}
}

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB is the pooled store handle shared by the ingestion pipeline and the query path.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// NewConnection opens the store named by dsn. postgres:// and postgresql://
// URLs use PostgreSQL; anything else is a SQLite path or file: URI, with an
// optional sqlite:// prefix.
func NewConnection(dsn string) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("connection string is empty")
	}

	dialect, driverDSN := ParseDSN(dsn)

	sqlDB, err := sql.Open(string(dialect), driverDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch dialect {
	case DialectPostgres:
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
	default:
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetMaxIdleConns(4)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, Dialect: dialect}, nil
}

// ParseDSN picks the dialect for dsn and returns the string handed to the driver.
func ParseDSN(dsn string) (Dialect, string) {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres, dsn
	}

	path := dsn
	if strings.HasPrefix(lower, "sqlite://") {
		path = dsn[len("sqlite://"):]
	}

	return DialectSQLite, withSQLitePragmas(path)
}

// withSQLitePragmas adds the connection options every pooled SQLite connection needs
// unless the caller already set them.
func withSQLitePragmas(path string) string {
	params := url.Values{}
	if !strings.Contains(path, "busy_timeout") {
		params.Add("_pragma", "busy_timeout(5000)")
	}
	if !strings.Contains(path, "journal_mode") && !strings.Contains(path, ":memory:") {
		params.Add("_pragma", "journal_mode(WAL)")
	}
	if !strings.Contains(path, "_time_format") {
		params.Set("_time_format", "sqlite")
	}
	if len(params) == 0 {
		return path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + params.Encode()
}

// Lower returns the SQL function that lower-cases text with Unicode rules.
func (db *DB) Lower() string {
	if db.Dialect == DialectPostgres {
		return "LOWER"
	}
	return sqliteLowerFunc
}

// Rebind rewrites ? placeholders into $n for PostgreSQL.
func (db *DB) Rebind(query string) string {
	if db.Dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)

	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}

	return b.String()
}
