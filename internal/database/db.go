package database

import (
	"context"
	"database/sql"
	"time"

	"gdccrm/internal/config"
	"gdccrm/internal/logging"
	"gdccrm/internal/models"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // pure Go SQLite driver, registered as "sqlite"
)

const (
	maxAttempts  = 10
	retryDelay   = 2 * time.Second
	pingTimeout  = 5 * time.Second
	maxOpenConns = 25
	maxIdleConns = 5
)

var log = logging.Component("database")

// Gateway is the handle every view uses to reach customers, enquiries and
// users. It is safe for concurrent use.
type Gateway struct {
	db *gorm.DB
}

// Open connects to the configured database, migrates the schema and seeds
// the default staff login. Postgres connections are retried while the
// database comes up.
func Open(cfg *config.Config) (*Gateway, error) {
	var (
		gw  *Gateway
		err error
	)
	if cfg.IsPostgres() {
		for i := 1; i <= maxAttempts; i++ {
			log.Info().Int("attempt", i).Int("of", maxAttempts).Msg("connecting to postgres")
			gw, err = open(postgres.Open(cfg.DBDSN))
			if err == nil {
				break
			}
			log.Warn().Err(err).Msg("failed to connect to postgres")
			time.Sleep(retryDelay)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "connect to postgres after %d attempts", maxAttempts)
		}
		sqlDB, err := gw.db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "underlying sql.DB")
		}
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxIdleConns)
	} else {
		gw, err = OpenSQLite(cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
	}

	if err := gw.Migrate(); err != nil {
		return nil, err
	}
	if err := gw.SeedUser(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		// the dashboard is still usable with existing logins
		log.Error().Err(err).Msg("failed to seed default user")
	}
	return gw, nil
}

// OpenSQLite opens (without migrating) a SQLite database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*Gateway, error) {
	log.Info().Str("path", path).Msg("opening sqlite database")
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// one connection: in-memory databases are per connection and SQLite
	// serialises writers anyway
	sqlDB.SetMaxOpenConns(1)

	return open(sqlite.Dialector{DriverName: "sqlite", DSN: path, Conn: sqlDB})
}

func open(dialector gorm.Dialector) (*Gateway, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "gorm open")
	}
	gw := &Gateway{db: db}
	if err := gw.Ping(context.Background()); err != nil {
		return nil, err
	}
	return gw, nil
}

// Migrate creates or updates the tables.
func (g *Gateway) Migrate() error {
	err := g.db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Enquiry{},
	)
	return errors.Wrap(err, "migrate")
}

// Ping checks that the database answers.
func (g *Gateway) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	sqlDB, err := g.db.DB()
	if err != nil {
		return errors.Wrap(err, "underlying sql.DB")
	}
	return errors.Wrap(sqlDB.PingContext(ctx), "ping")
}

func (g *Gateway) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedUser creates a staff login unless one with the same email exists.
func (g *Gateway) SeedUser(ctx context.Context, name, email, password string) error {
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return errors.Wrap(err, "check seed user")
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash seed password")
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := g.db.WithContext(ctx).Create(&user).Error; err != nil {
		return errors.Wrap(err, "create seed user")
	}

	log.Info().Str("email", email).Msg("created default user")
	return nil
}
