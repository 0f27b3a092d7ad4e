package tr

import (
	"context"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Manager выполняет функцию в транзакции PostgreSQL.
// Репозитории достают транзакцию из контекста через Conn.
type Manager struct {
	m *manager.Manager
}

func NewManager(pool *pgxpool.Pool) *Manager {
	return &Manager{m: manager.Must(trmpgx.NewDefaultFactory(pool))}
}

// Do запускает fn в транзакции. Вложенные вызовы переиспользуют внешнюю транзакцию.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.m.Do(ctx, fn)
}

// Conn возвращает транзакцию из контекста, либо пул, если транзакции нет.
func Conn(ctx context.Context, pool *pgxpool.Pool) trmpgx.Tr {
	return trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, pool)
}
