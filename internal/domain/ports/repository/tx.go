package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager provides a thin abstraction to execute a function within a
// database transaction, passing the underlying transaction handle via `tx`.
//
// Use-case interfaces stay clean (no transaction types leaking out); repository
// methods that accept a Tx detect the handle implementation-side and run their
// statements tx-bound. Repositories MUST gracefully accept NoTX / nil (the
// non-transactional path).
//
// Note that the bid award sequence deliberately does NOT run inside a
// transaction: each of its steps commits independently (see usecase.BidUseCase).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
