package business

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	caterrors "github.com/radu-bors/Clique-backend/internal/domain/catalog/errors"
	"github.com/radu-bors/Clique-backend/internal/repository/memory"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
)

func TestCatalog_AddListGet(t *testing.T) {
	uc := NewUseCase(memory.NewStore().Activities(), zerolog.Nop())
	ctx := context.Background()

	hiking, err := uc.Add(ctx, " hiking ")
	require.NoError(t, err)
	assert.Equal(t, "hiking", hiking.ActivityName)

	_, err = uc.Add(ctx, "chess")
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hiking", list[0].ActivityName)
	assert.Equal(t, "chess", list[1].ActivityName)

	got, err := uc.Get(ctx, hiking.ActivityID)
	require.NoError(t, err)
	assert.Equal(t, *hiking, *got)
}

func TestCatalog_Errors(t *testing.T) {
	uc := NewUseCase(memory.NewStore().Activities(), zerolog.Nop())
	ctx := context.Background()

	_, err := uc.Add(ctx, "")
	var validationErr *pkgerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "activity_name", validationErr.Field)

	_, err = uc.Get(ctx, uuid.New())
	var notFound *pkgerrors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.ErrorIs(t, err, caterrors.ErrActivityNotFound)
}
