package leaverequest

import (
	"errors"

	leaverequesterrors "go-hrms/internal/leaverequest/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapWriteError translates constraint violations from the insert path. A
// foreign key failure means the employee or department row disappeared
// between the directory read and this write.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return leaverequesterrors.ErrEmployeeNotFound
	}

	return err
}
