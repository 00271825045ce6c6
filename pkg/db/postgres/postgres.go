package postgres

import (
	_ "github.com/lib/pq"

	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v6"

	"github.com/ranorsolutions/pg-common-go/pkg/pguri"
)

// Connection -- Discrete connection settings, usually read from the environment
type Connection struct {
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT"`
	DB       string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSL_MODE"`
}

// String -- Generates the postgresql:// connection URI for these settings
func (c *Connection) String() string {
	if c.User == "" || c.Password == "" {
		if c.User != "" {
			return fmt.Sprintf("postgresql://%s@%s:%s/%s?sslmode=%s", c.User, c.Host, c.Port, c.DB, c.SSLMode)
		}

		return c.HostString()
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.DB, c.SSLMode)
}

// HostString -- Generates the connection URI without credentials
func (c *Connection) HostString() string {
	return fmt.Sprintf("postgresql://%s:%s/%s?sslmode=%s", c.Host, c.Port, c.DB, c.SSLMode)
}

// GetURIFromEnv -- Reads the DB_* variables into a Connection
func GetURIFromEnv() (*Connection, error) {
	conn := &Connection{}
	if err := env.Parse(conn); err != nil {
		return nil, err
	}

	return conn, nil
}

// Connect -- Opens a database handle for the given connection settings
func Connect(conn *Connection) (*sql.DB, error) {
	return sql.Open("postgres", conn.String())
}

// Open -- Parses a postgresql:// connection URI and opens a database handle
// for the parameters it carries
func Open(uri string) (*sql.DB, error) {
	params, err := pguri.Parse(uri)
	if err != nil {
		return nil, err
	}

	return sql.Open("postgres", Conninfo(params))
}

// Conninfo -- Renders parsed URI parameters as a libpq keyword/value string
// (`host=... port=... dbname=...`). Both hostname and socket_dir map to the
// libpq host keyword; libpq tells them apart by the leading slash.
func Conninfo(params *pguri.Params) string {
	settings := make([]string, 0, params.Len())
	for _, key := range params.Keys() {
		value, _ := params.Get(key)
		keyword, rendered := renderSetting(key, value)
		settings = append(settings, keyword+"="+quoteValue(rendered))
	}

	return strings.Join(settings, " ")
}

// renderSetting -- Translates one parsed parameter into a libpq keyword and
// value. A reserved name can also arrive as a passthrough string (a query
// key literally called `ssl` is not in the parser's table), so each typed
// case checks its assertion and falls back to verbatim passthrough.
func renderSetting(key string, value any) (string, string) {
	switch key {
	case "hostname", "socket_dir":
		if host, ok := value.(string); ok {
			return "host", host
		}
	case "port":
		if port, ok := value.(int); ok {
			return "port", strconv.Itoa(port)
		}
	case "database":
		if database, ok := value.(string); ok {
			return "dbname", database
		}
	case "username":
		if user, ok := value.(string); ok {
			return "user", user
		}
	case "ssl":
		if ssl, ok := value.(bool); ok {
			if ssl {
				return "sslmode", "require"
			}
			return "sslmode", "disable"
		}
	case "connect_timeout":
		// The parser stores milliseconds; libpq wants seconds.
		if timeout, ok := value.(int); ok {
			return "connect_timeout", strconv.Itoa(timeout / 1000)
		}
	}

	return key, fmt.Sprintf("%v", value)
}

// quoteValue -- Quotes a conninfo value the way libpq expects: single quotes
// around anything empty or containing spaces, quotes or backslashes
func quoteValue(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}

	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `'`, `\'`)
	return "'" + value + "'"
}
