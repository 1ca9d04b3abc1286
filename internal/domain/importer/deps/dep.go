package deps

import (
	"context"
	"io"

	"github.com/radu-bors/Clique-backend/internal/domain/importer/entities"
)

type Loader interface {
	// Load inserts rows (entity pointers of the table's type) in a single
	// transaction. The first failing row aborts the load with a *RowError.
	Load(ctx context.Context, table entities.Table, rows []any) error
}

type ImporterUseCase interface {
	ImportFile(ctx context.Context, table entities.Table, r io.Reader) (*entities.Result, error)
}
