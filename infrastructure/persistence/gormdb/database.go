package gormdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"agentxrp-backend/application/ports"
	pkgerrors "agentxrp-backend/pkg/errors"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

const defaultSQLitePath = "agentxrp.db"

// Options configures how the store connects
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	EnableTracing   bool
}

// Store is the gorm-backed ledger store. It implements ports.Store.
type Store struct {
	db     *gorm.DB
	driver string
	logger *zap.Logger
}

var _ ports.Store = (*Store)(nil)

// Open connects to the configured database and creates the schema
func Open(opts Options, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dialector, err := newDialector(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	if opts.Driver == DriverSQLite || opts.Driver == "" {
		// One connection serializes writers, so concurrent transactions
		// queue instead of failing with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		}
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if opts.EnableTracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, fmt.Errorf("install tracing plugin: %w", err)
		}
	}

	store := &Store{
		db:     db,
		driver: driverName(opts.Driver),
		logger: logger,
	}
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.Info("Database opened",
		zap.String("driver", store.driver),
	)
	return store, nil
}

func driverName(driver string) string {
	if driver == "" {
		return DriverSQLite
	}
	return driver
}

func newDialector(opts Options) (gorm.Dialector, error) {
	switch driverName(opts.Driver) {
	case DriverSQLite:
		return sqlite.Open(sqliteDSN(opts.DSN)), nil
	case DriverPostgres:
		if strings.TrimSpace(opts.DSN) == "" {
			return nil, fmt.Errorf("postgres requires a DSN")
		}
		return postgres.Open(opts.DSN), nil
	case DriverMySQL:
		if strings.TrimSpace(opts.DSN) == "" {
			return nil, fmt.Errorf("mysql requires a DSN")
		}
		return mysql.Open(opts.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// sqliteDSN applies WAL and a busy timeout unless the caller set pragmas
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = defaultSQLitePath
	}
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// DB exposes the underlying gorm handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// SQLDB exposes the pooled connection for stats collection
func (s *Store) SQLDB() (*sql.DB, error) {
	return s.db.DB()
}

// Driver returns the name of the active driver
func (s *Store) Driver() string {
	return s.driver
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return pkgerrors.NewDatabaseError("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return pkgerrors.NewDatabaseError("ping", err)
	}
	return nil
}

// Close releases the connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Execute runs fn inside one transaction. Any error from fn rolls back
// every write made through tx.
func (s *Store) Execute(ctx context.Context, fn func(tx ports.Repositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	}, s.txOptions()...)
	if err == nil {
		return nil
	}
	if pkgerrors.IsAppError(err) {
		return err
	}
	return pkgerrors.NewDatabaseError("transaction", err)
}

// txOptions asks for SERIALIZABLE where the server supports choosing an
// isolation level. SQLite transactions are already serialized.
func (s *Store) txOptions() []*sql.TxOptions {
	if s.driver == DriverSQLite {
		return nil
	}
	return []*sql.TxOptions{{Isolation: sql.LevelSerializable}}
}

func (s *Store) Agents() ports.AgentRepository     { return &agentRepository{db: s.db} }
func (s *Store) Posts() ports.PostRepository       { return &postRepository{db: s.db} }
func (s *Store) Votes() ports.VoteRepository       { return &voteRepository{db: s.db} }
func (s *Store) Tips() ports.TipRepository         { return &tipRepository{db: s.db} }
func (s *Store) Comments() ports.CommentRepository { return &commentRepository{db: s.db} }

// txRepositories binds every repository to one transaction
type txRepositories struct {
	tx *gorm.DB
}

func newRepositories(tx *gorm.DB) ports.Repositories {
	return &txRepositories{tx: tx}
}

func (r *txRepositories) Agents() ports.AgentRepository     { return &agentRepository{db: r.tx} }
func (r *txRepositories) Posts() ports.PostRepository       { return &postRepository{db: r.tx} }
func (r *txRepositories) Votes() ports.VoteRepository       { return &voteRepository{db: r.tx} }
func (r *txRepositories) Tips() ports.TipRepository         { return &tipRepository{db: r.tx} }
func (r *txRepositories) Comments() ports.CommentRepository { return &commentRepository{db: r.tx} }
