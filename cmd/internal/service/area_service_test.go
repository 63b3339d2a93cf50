package service

import (
	"context"
	"net/http"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/infrastructure/cache"
	"portalmunicipal/cmd/internal/tester"
	"portalmunicipal/cmd/internal/utils/apierror"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAreaAndCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	area, apierr := f.areas.CreateArea(ctx, admin, &contract.AreaRequest{Name: "Gestão Pública"})
	require.Nil(t, apierr)
	assert.Equal(t, "gestao-publica", area.Slug)
	assert.True(t, area.Active)

	category, apierr := f.areas.CreateCategory(ctx, admin, area.ID, &contract.CategoryRequest{
		Name:  "Relatórios de Gestão",
		Macro: string(entity.MacroPrestacaoContas),
	})
	require.Nil(t, apierr)
	assert.Equal(t, "relatorios-de-gestao", category.Slug)
	assert.Equal(t, area.ID, category.AreaID)

	_, apierr = f.areas.CreateArea(ctx, admin, &contract.AreaRequest{Name: "Gestao publica"})
	assert.Equal(t, apierror.DuplicateSlugError, apierr)
}

func TestCreateCategory_Rejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seeded := tester.SeedCategory(t, f.db, "base", entity.MacroInstitucional)

	_, apierr := f.areas.CreateCategory(ctx, admin, seeded.AreaID, &contract.CategoryRequest{Name: "Outros", Macro: "OUTROS"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	_, apierr = f.areas.CreateCategory(ctx, editor, seeded.AreaID, &contract.CategoryRequest{Name: "Outros", Macro: "INSTITUCIONAL"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())

	_, apierr = f.areas.CreateCategory(ctx, admin, 999, &contract.CategoryRequest{Name: "Outros", Macro: "INSTITUCIONAL"})
	assert.Equal(t, apierror.AreaNotFoundError, apierr)
}

func TestDeleteCategory_InUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "contratos", entity.MacroContratosParcerias)
	tester.SeedDocument(t, f.db, category.ID, entity.DocumentArchived)

	apierr := f.areas.DeleteCategory(ctx, admin, category.ID)
	assert.Equal(t, apierror.CategoryInUseError, apierr)

	apierr = f.areas.DeleteArea(ctx, admin, category.AreaID)
	assert.Equal(t, apierror.AreaInUseError, apierr)
}

func TestDeleteCategory_Empty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "vazia", entity.MacroInstitucional)

	require.Nil(t, f.areas.DeleteCategory(ctx, admin, category.ID))
	require.Nil(t, f.areas.DeleteArea(ctx, admin, category.AreaID))

	areas, apierr := f.areas.ListAreas(ctx, editor)
	require.Nil(t, apierr)
	assert.Empty(t, areas)
}

func TestListPublicAreas_HidesInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	active := tester.SeedCategory(t, f.db, "ativa", entity.MacroInstitucional)
	hidden := tester.SeedCategory(t, f.db, "oculta", entity.MacroInstitucional)

	inactive := false
	_, apierr := f.areas.UpdateArea(ctx, admin, hidden.AreaID, &contract.UpdateAreaRequest{Active: &inactive})
	require.Nil(t, apierr)
	assert.Contains(t, f.cache.droppedPrefixes(), cache.PrefixAreas)

	areas, apierr := f.areas.ListPublicAreas(ctx)
	require.Nil(t, apierr)
	require.Len(t, areas, 1)
	assert.Equal(t, active.AreaID, areas[0].ID)
	require.Len(t, areas[0].Categories, 1)
	assert.Equal(t, "ativa", areas[0].Categories[0].Slug)

	all, apierr := f.areas.ListAreas(ctx, admin)
	require.Nil(t, apierr)
	assert.Len(t, all, 2)
}
