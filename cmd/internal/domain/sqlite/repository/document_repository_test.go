package repository

import (
	"context"
	"errors"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/tester"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRepository_TransactionRollsBack(t *testing.T) {
	db := tester.TestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	category := tester.SeedCategory(t, db, "normas", entity.MacroNormativosInternos)
	doc := tester.SeedDocument(t, db, category.ID, entity.DocumentDraft)
	v1 := tester.SeedVersion(t, db, doc.ID, 1, true)
	v2 := tester.SeedVersion(t, db, doc.ID, 2, false)

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx DocumentStore) error {
		require.NoError(t, tx.ClearCurrentVersions(ctx, doc.ID))
		require.NoError(t, tx.MarkCurrentVersion(ctx, v2.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	versions, err := repo.FindVersions(ctx, doc.ID)
	require.NoError(t, err)
	for _, v := range versions {
		assert.Equal(t, v.ID == v1.ID, v.IsCurrent, "version %d", v.VersionNumber)
	}
}

func TestDocumentRepository_FindVersionIsScopedToDocument(t *testing.T) {
	db := tester.TestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	category := tester.SeedCategory(t, db, "normas", entity.MacroNormativosInternos)
	a := tester.SeedDocument(t, db, category.ID, entity.DocumentDraft)
	b := tester.SeedDocument(t, db, category.ID, entity.DocumentDraft)
	va := tester.SeedVersion(t, db, a.ID, 1, true)

	found, err := repo.FindVersion(ctx, a.ID, va.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	found, err = repo.FindVersion(ctx, b.ID, va.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestDocumentRepository_NextVersionNumber(t *testing.T) {
	db := tester.TestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	category := tester.SeedCategory(t, db, "normas", entity.MacroNormativosInternos)
	doc := tester.SeedDocument(t, db, category.ID, entity.DocumentDraft)

	next, err := repo.NextVersionNumber(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	tester.SeedVersion(t, db, doc.ID, 1, true)
	tester.SeedVersion(t, db, doc.ID, 2, false)

	next, err = repo.NextVersionNumber(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestDocumentRepository_FindAllFilters(t *testing.T) {
	db := tester.TestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	normas := tester.SeedCategory(t, db, "normas", entity.MacroNormativosInternos)
	contratos := tester.SeedCategory(t, db, "contratos", entity.MacroContratosParcerias)

	published := tester.SeedDocument(t, db, normas.ID, entity.DocumentPublished, entity.ContextTransparency)
	tester.SeedVersion(t, db, published.ID, 1, true)
	tester.SeedDocument(t, db, normas.ID, entity.DocumentDraft, entity.ContextTransparency)
	other := tester.SeedDocument(t, db, contratos.ID, entity.DocumentPublished, entity.ContextBiddings)

	tests := []struct {
		name   string
		filter DocumentFilter
		want   []int64
	}{
		{"published", DocumentFilter{Status: entity.DocumentPublished}, []int64{other.ID, published.ID}},
		{"by context", DocumentFilter{Status: entity.DocumentPublished, Context: entity.ContextTransparency}, []int64{published.ID}},
		{"by category slug", DocumentFilter{Status: entity.DocumentPublished, CategorySlug: "contratos"}, []int64{other.ID}},
		{"by category id", DocumentFilter{CategoryID: contratos.ID}, []int64{other.ID}},
		{"no match", DocumentFilter{Context: entity.ContextInstitutional}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := repo.FindAll(ctx, tt.filter)
			require.NoError(t, err)

			var ids []int64
			for _, d := range docs {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	docs, err := repo.FindAll(ctx, DocumentFilter{Status: entity.DocumentPublished, Context: entity.ContextTransparency})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.NotNil(t, docs[0].CurrentVersion)
	assert.Equal(t, 1, docs[0].CurrentVersion.VersionNumber)
	assert.Equal(t, "normas", docs[0].Category.Slug)
	assert.True(t, placedIn(docs[0], entity.ContextTransparency))
}

func TestDocumentRepository_ReplaceContexts(t *testing.T) {
	db := tester.TestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	category := tester.SeedCategory(t, db, "normas", entity.MacroNormativosInternos)
	doc := tester.SeedDocument(t, db, category.ID, entity.DocumentDraft, entity.ContextTransparency)

	err := repo.ReplaceContexts(ctx, doc.ID, []entity.DocumentContext{entity.ContextBiddings, entity.ContextInstitutional})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.False(t, placedIn(found, entity.ContextTransparency))
	assert.True(t, placedIn(found, entity.ContextBiddings))
	assert.True(t, placedIn(found, entity.ContextInstitutional))
}

func TestDocumentRepository_CountByCategory(t *testing.T) {
	db := tester.TestDB(t)
	repo := NewDocumentRepository(db)
	ctx := context.Background()

	category := tester.SeedCategory(t, db, "normas", entity.MacroNormativosInternos)
	count, err := repo.CountByCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	tester.SeedDocument(t, db, category.ID, entity.DocumentDraft)
	count, err = repo.CountByCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func placedIn(doc *entity.Document, c entity.DocumentContext) bool {
	for _, p := range doc.Contexts {
		if p.Context == c {
			return true
		}
	}
	return false
}
