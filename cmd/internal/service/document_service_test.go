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

func countAudits(t *testing.T, f *fixture, documentID int64) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.db.Model(&entity.DocumentAudit{}).Where("document_id = ?", documentID).Count(&count).Error)
	return count
}

func TestCreateDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "regimentos", entity.MacroGovernancaGestao)

	resp, apierr := f.documents.CreateDocument(ctx, author, &contract.DocumentRequest{
		Title:        "  Regimento Interno  ",
		CategoryID:   category.ID,
		DocumentType: "Regimento Interno",
		Contexts:     []string{"Transparência", "institucional"},
	})
	require.Nil(t, apierr)

	assert.Equal(t, "Regimento Interno", resp.Title)
	assert.Equal(t, string(entity.DocumentDraft), resp.Status)
	assert.Equal(t, []string{"INSTITUTIONAL", "TRANSPARENCY"}, resp.Contexts)
	assert.True(t, resp.CanCreateNewVersion)
	assert.Equal(t, int64(1), countAudits(t, f, resp.ID))
}

func TestCreateDocument_Rejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "atas", entity.MacroDocumentosOficiais)

	tests := []struct {
		name  string
		actor *entity.Actor
		req   *contract.DocumentRequest
		code  int
	}{
		{
			name:  "approver cannot create",
			actor: approver,
			req:   &contract.DocumentRequest{Title: "Ata", CategoryID: category.ID, DocumentType: "Ata"},
			code:  http.StatusForbidden,
		},
		{
			name:  "missing title",
			actor: editor,
			req:   &contract.DocumentRequest{CategoryID: category.ID, DocumentType: "Ata"},
			code:  http.StatusBadRequest,
		},
		{
			name:  "unknown context",
			actor: editor,
			req:   &contract.DocumentRequest{Title: "Ata", CategoryID: category.ID, DocumentType: "Ata", Contexts: []string{"blog"}},
			code:  http.StatusBadRequest,
		},
		{
			name:  "unknown category",
			actor: editor,
			req:   &contract.DocumentRequest{Title: "Ata", CategoryID: 999, DocumentType: "Ata"},
			code:  http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, apierr := f.documents.CreateDocument(ctx, tt.actor, tt.req)
			require.NotNil(t, apierr)
			assert.Equal(t, tt.code, apierr.Code())
		})
	}
}

func TestSubmitApprove_WritesAudits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "relatorios", entity.MacroPrestacaoContas)
	doc := tester.SeedDocument(t, f.db, category.ID, entity.DocumentDraft, entity.ContextTransparency)

	_, apierr := f.documents.Submit(ctx, author, doc.ID)
	require.Nil(t, apierr)

	resp, apierr := f.documents.Approve(ctx, approver, doc.ID)
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.DocumentPublished), resp.Status)
	assert.NotNil(t, resp.PublishedAt)
	require.NotNil(t, resp.ApprovedByID)
	assert.Equal(t, approver.UserID, *resp.ApprovedByID)

	history, apierr := f.documents.GetHistory(ctx, editor, doc.ID)
	require.Nil(t, apierr)
	require.Len(t, history, 2)

	assert.Equal(t, "DRAFT", history[0].FromStatus)
	assert.Equal(t, "PENDING", history[0].ToStatus)
	assert.Equal(t, string(entity.RoleAuthor), history[0].ActorRole)

	assert.Equal(t, "PENDING", history[1].FromStatus)
	assert.Equal(t, "PUBLISHED", history[1].ToStatus)
	assert.Equal(t, approver.UserID, history[1].ActorID)

	assert.Contains(t, f.cache.droppedPrefixes(), cache.PrefixDocuments)
}

func TestApprove_FromArchived(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "leis", entity.MacroDocumentosOficiais)
	doc := tester.SeedDocument(t, f.db, category.ID, entity.DocumentArchived)

	_, apierr := f.documents.Approve(ctx, admin, doc.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
	assert.Contains(t, apierr.(*apierror.APIError).Message, "ARCHIVED")

	assert.Zero(t, countAudits(t, f, doc.ID))
}

func TestTransition_WithoutCapability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "editais", entity.MacroDocumentosOficiais)
	pending := tester.SeedDocument(t, f.db, category.ID, entity.DocumentPending)
	published := tester.SeedDocument(t, f.db, category.ID, entity.DocumentPublished)

	_, apierr := f.documents.Approve(ctx, author, pending.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())

	// Archiving is reserved to admins.
	_, apierr = f.documents.Unpublish(ctx, editor, published.ID)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())

	_, apierr = f.documents.Unpublish(ctx, admin, published.ID)
	assert.Nil(t, apierr)

	assert.Zero(t, countAudits(t, f, pending.ID))
}

func TestTransition_UnknownDocument(t *testing.T) {
	f := newFixture(t)

	_, apierr := f.documents.Submit(context.Background(), admin, 404)
	assert.Equal(t, apierror.DocumentNotFoundError, apierr)
}

func TestPublished_HidesDrafts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "balancos", entity.MacroPrestacaoContas)
	draft := tester.SeedDocument(t, f.db, category.ID, entity.DocumentDraft, entity.ContextTransparency)
	published := tester.SeedDocument(t, f.db, category.ID, entity.DocumentPublished, entity.ContextTransparency)

	list, apierr := f.documents.ListPublished(ctx, "transparencia", "")
	require.Nil(t, apierr)
	require.Len(t, list, 1)
	assert.Equal(t, published.ID, list[0].ID)
	assert.Zero(t, list[0].CreatedByID)

	_, apierr = f.documents.GetPublished(ctx, draft.ID)
	assert.Equal(t, apierror.DocumentNotFoundError, apierr)

	_, apierr = f.documents.ListPublished(ctx, "blog", "")
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
}

func TestListPublished_ServedFromCacheUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "contas", entity.MacroPrestacaoContas)
	tester.SeedDocument(t, f.db, category.ID, entity.DocumentPublished)
	pending := tester.SeedDocument(t, f.db, category.ID, entity.DocumentPending)

	list, apierr := f.documents.ListPublished(ctx, "", "contas")
	require.Nil(t, apierr)
	require.Len(t, list, 1)
	assert.Equal(t, 1, f.cache.size())

	_, apierr = f.documents.Approve(ctx, approver, pending.ID)
	require.Nil(t, apierr)

	list, apierr = f.documents.ListPublished(ctx, "", "contas")
	require.Nil(t, apierr)
	assert.Len(t, list, 2)
}

func TestUpdateDocument_ReplacesContexts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "portarias", entity.MacroNormativosInternos)
	doc := tester.SeedDocument(t, f.db, category.ID, entity.DocumentDraft, entity.ContextTransparency)

	title := "Portaria 12"
	resp, apierr := f.documents.UpdateDocument(ctx, editor, doc.ID, &contract.UpdateDocumentRequest{
		Title:    &title,
		Contexts: []string{"LICITACOES"},
	})
	require.Nil(t, apierr)

	assert.Equal(t, title, resp.Title)
	assert.Equal(t, []string{"BIDDINGS"}, resp.Contexts)
	assert.Equal(t, editor.UserID, resp.UpdatedByID)
	assert.Equal(t, int64(1), countAudits(t, f, doc.ID))
}

func TestUpdateDocument_KeepsConcurrentPromotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "manuais", entity.MacroNormativosInternos)
	doc := tester.SeedDocument(t, f.db, category.ID, entity.DocumentDraft)
	tester.SeedVersion(t, f.db, doc.ID, 1, true)
	v2 := tester.SeedVersion(t, f.db, doc.ID, 2, false)

	racing := &racingDocuments{DocumentStore: f.docRepo}
	racing.meanwhile = func() {
		_, apierr := f.versions.SetCurrentVersion(ctx, editor, doc.ID, v2.ID)
		require.Nil(t, apierr)
	}
	documents := NewDocumentService(racing, f.areaRepo, f.files, f.publicCache, f.validate)

	title := "Manual de compras"
	resp, apierr := documents.UpdateDocument(ctx, editor, doc.ID, &contract.UpdateDocumentRequest{Title: &title})
	require.Nil(t, apierr)

	assert.Equal(t, title, resp.Title)
	assert.Equal(t, []int64{v2.ID}, currentVersionIDs(t, f, doc.ID))
	assert.Equal(t, &v2.ID, documentPointer(t, f, doc.ID))
	require.NotNil(t, resp.CurrentVersion)
	assert.Equal(t, v2.ID, resp.CurrentVersion.ID)
}

func TestUpdateDocument_KeepsConcurrentApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := tester.SeedCategory(t, f.db, "resolucoes", entity.MacroNormativosInternos)
	doc := tester.SeedDocument(t, f.db, category.ID, entity.DocumentPending)

	racing := &racingDocuments{DocumentStore: f.docRepo}
	racing.meanwhile = func() {
		_, apierr := f.documents.Approve(ctx, approver, doc.ID)
		require.Nil(t, apierr)
	}
	documents := NewDocumentService(racing, f.areaRepo, f.files, f.publicCache, f.validate)

	description := "Texto consolidado"
	resp, apierr := documents.UpdateDocument(ctx, editor, doc.ID, &contract.UpdateDocumentRequest{Description: &description})
	require.Nil(t, apierr)

	assert.Equal(t, description, resp.Description)
	assert.Equal(t, string(entity.DocumentPublished), resp.Status)

	var stored entity.Document
	require.NoError(t, f.db.First(&stored, doc.ID).Error)
	assert.Equal(t, entity.DocumentPublished, stored.Status)
	assert.NotNil(t, stored.PublishedAt)
	require.NotNil(t, stored.ApprovedByID)
	assert.Equal(t, approver.UserID, *stored.ApprovedByID)
	assert.Equal(t, editor.UserID, stored.UpdatedByID)

	history, apierr := f.documents.GetHistory(ctx, admin, doc.ID)
	require.Nil(t, apierr)
	require.Len(t, history, 2)
	assert.Equal(t, string(entity.DocumentPublished), history[1].FromStatus)
	assert.Equal(t, string(entity.DocumentPublished), history[1].ToStatus)
}
