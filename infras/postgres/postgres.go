package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"time"

	"cowork/config"
	"cowork/shared/constant"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits reads from writes. Booking transactions always run on Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  connect("read", cfg, cfg.DB.Postgres.Read),
		Write: connect("write", cfg, cfg.DB.Postgres.Write),
	}
}

// DatabaseName applies the configured prefix, used to isolate environments on one server.
func DatabaseName(cfg *config.Config, baseName string) string {
	return cfg.DB.Postgres.Prefix + baseName
}

// DSN builds a postgres URL for the node. Extra query values are appended as is.
func DSN(cfg *config.Config, node config.PostgresNode, extra url.Values) string {
	query := url.Values{}
	if node.SSLMode != constant.Empty {
		query.Set("sslmode", node.SSLMode)
	}

	if node.Timezone != constant.Empty {
		query.Set("timezone", node.Timezone)
	}

	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	descriptor := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(node.Username, node.Password),
		Host:     net.JoinHostPort(node.Host, node.Port),
		Path:     DatabaseName(cfg, node.Name),
		RawQuery: query.Encode(),
	}

	return descriptor.String()
}

func connect(name string, cfg *config.Config, node config.PostgresNode) *sqlx.DB {
	descriptor := DSN(cfg, node, nil)
	attempts := max(cfg.DB.Postgres.MaxRetry, 1)

	logger := log.With().
		Str("name", name).
		Str("host", node.Host).
		Str("port", node.Port).
		Str("dbName", DatabaseName(cfg, node.Name)).
		Logger()

	for retry := range attempts {
		sqlDB, err := sqlx.Connect("postgres", descriptor)
		if err == nil {
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			logger.Info().Msg("Connected to database")

			return sqlDB
		}

		logger.Error().Err(err).Int("attempt", retry+1).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second)
	}

	logger.Fatal().Int("attempts", attempts).Msg("Giving up connecting to database")

	return nil
}
