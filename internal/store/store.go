package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/iurnickita/wbsales/internal/model"
	"github.com/iurnickita/wbsales/internal/store/config"
)

type Store interface {
	AuthRegister(ctx context.Context, login string, passwordHash string) (string, error)
	AuthGetUser(ctx context.Context, login string) (userCode string, passwordHash string, err error)
	OrderInsertIgnore(ctx context.Context, order model.Order) (bool, error)
	OrderGetByBarcode(ctx context.Context, barcode string) (model.Order, error)
	OrderApplySale(ctx context.Context, id int64, rec model.Record) error
	OrderList(ctx context.Context, query model.ListQuery) (model.OrderPage, error)
	SaleInsertIgnore(ctx context.Context, sale model.Sale) (bool, error)
	SaleList(ctx context.Context, query model.ListQuery) (model.SalePage, error)
	Close() error
}

var (
	ErrNoRows        = errors.New("no rows")
	ErrAlreadyExists = errors.New("already exists")
	ErrSortColumn    = errors.New("unknown sort column")
)

//go:embed migrations/*.sql
var migrations embed.FS

type store struct {
	database *sql.DB
}

func NewStore(cfg config.Config) (Store, error) {
	db, err := sql.Open("pgx", cfg.DBDsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Схема: заказы, продажи без заказа, учетные записи
	if err = migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &store{
		database: db,
	}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

func (store *store) Close() error {
	return store.database.Close()
}

func (store *store) AuthRegister(ctx context.Context, login string, passwordHash string) (string, error) {
	// Запись нового пользователя
	row := store.database.QueryRowContext(ctx,
		"INSERT INTO users (login, password_hash)"+
			" VALUES ($1, $2)"+
			" RETURNING uuid",
		login,
		passwordHash)

	// Получение ID пользователя
	var uuid int
	err := row.Scan(&uuid)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrAlreadyExists
		}
		return "", err
	}

	return strconv.Itoa(uuid), nil
}

func (store *store) AuthGetUser(ctx context.Context, login string) (string, string, error) {
	row := store.database.QueryRowContext(ctx,
		"SELECT uuid, password_hash FROM users"+
			" WHERE login = $1",
		login)
	var (
		uuid int
		hash string
	)
	err := row.Scan(&uuid, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrNoRows
		}
		return "", "", err
	}

	return strconv.Itoa(uuid), hash, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
