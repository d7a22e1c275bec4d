package postgres

import (
	"context"
	"database/sql"
)

// Queryer é o subconjunto de database/sql usado pelos repositórios.
// Tanto *sql.DB (via Connection) quanto *sql.Tx satisfazem a interface, o que
// permite que os mesmos repositórios rodem dentro ou fora de uma transação.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxRunner abstrai a execução transacional para os usecases; implementada por
// *Connection.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}
