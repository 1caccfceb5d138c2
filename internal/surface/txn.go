package surface

import "fmt"

// Txn is the capability to mutate surfaces inside a batched-commit scope.
// The only way to obtain one is Batch, and it stops being active as soon as
// the batch function returns.
type Txn struct {
	closed bool
}

// Active reports whether the transaction scope is still open.
func (tx *Txn) Active() bool {
	return tx != nil && !tx.closed
}

// Batch opens a transaction on s, runs fn with a live token and closes the
// transaction, committing every surface change made by fn at once. The
// transaction is closed even if fn panics.
func Batch(s Session, fn func(tx *Txn)) (err error) {
	if err := s.OpenTransaction(); err != nil {
		return fmt.Errorf("failed to open transaction: %w", err)
	}

	tx := &Txn{}
	defer func() {
		tx.closed = true
		if cerr := s.CloseTransaction(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close transaction: %w", cerr)
		}
	}()

	fn(tx)
	return nil
}
