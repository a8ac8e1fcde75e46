package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tooldeck/internal/application/usecase"
	"github.com/bnema/tooldeck/internal/domain/entity"
	repomocks "github.com/bnema/tooldeck/internal/domain/repository/mocks"
)

func TestRememberView_DisabledWithoutRepository(t *testing.T) {
	uc := usecase.NewRememberViewUseCase(nil)
	ctx := testContext()

	assert.False(t, uc.Enabled())
	assert.Nil(t, uc.Lookup(ctx, "abc"))
	require.NoError(t, uc.Remember(ctx, &entity.RememberedView{Fingerprint: "abc"}))
	views, err := uc.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, views)
}

func TestRememberView_Lookup(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockViewStateRepository(t)
	want := &entity.RememberedView{Fingerprint: "abc", Page: 4, Scale: 1.5}
	repo.EXPECT().Get(mock.Anything, entity.Fingerprint("abc")).Return(want, nil)
	repo.EXPECT().Get(mock.Anything, entity.Fingerprint("broken")).Return(nil, errors.New("disk on fire"))

	uc := usecase.NewRememberViewUseCase(repo)

	assert.Same(t, want, uc.Lookup(ctx, "abc"))
	assert.Nil(t, uc.Lookup(ctx, "broken"), "storage errors read as nothing remembered")
	assert.Nil(t, uc.Lookup(ctx, ""), "empty fingerprints never hit storage")
}

func TestRememberView_RememberClampsValues(t *testing.T) {
	repo := repomocks.NewMockViewStateRepository(t)
	repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*entity.RememberedView")).
		Run(func(_ context.Context, v *entity.RememberedView) {
			assert.Equal(t, 1, v.Page)
			assert.InDelta(t, entity.ScaleMax, v.Scale, 0)
		}).
		Return(nil)

	uc := usecase.NewRememberViewUseCase(repo)
	err := uc.Remember(testContext(), &entity.RememberedView{Fingerprint: "abc", Page: 0, Scale: 40})
	require.NoError(t, err)
}

func TestRememberView_RecentAndForgetWrapErrors(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockViewStateRepository(t)
	boom := errors.New("boom")
	repo.EXPECT().Recent(mock.Anything, 3).Return(nil, boom)
	repo.EXPECT().Delete(mock.Anything, entity.Fingerprint("abc")).Return(boom)

	uc := usecase.NewRememberViewUseCase(repo)

	_, err := uc.Recent(ctx, 3)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, uc.Forget(ctx, "abc"), boom)
}
