package service

import (
	"context"
	"net/http"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/utils/apierror"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createBidding(t *testing.T, f *fixture, number string, published bool) *contract.BiddingResponse {
	t.Helper()

	value := "R$ 1.250.000,50"
	opening := "2024-03-15"
	resp, apierr := f.biddings.CreateBidding(context.Background(), editor, &contract.BiddingRequest{
		Number:         number,
		Modality:       "Pregão Eletrônico",
		Object:         "Aquisição de merenda escolar",
		EstimatedValue: &value,
		OpeningDate:    &opening,
		Published:      published,
	})
	require.Nil(t, apierr)
	return resp
}

func TestCreateBidding(t *testing.T) {
	f := newFixture(t)
	resp := createBidding(t, f, "001/2024", true)

	assert.Equal(t, string(entity.PhasePlanejamento), resp.Status)
	require.NotNil(t, resp.EstimatedValueCents)
	assert.Equal(t, int64(125000050), *resp.EstimatedValueCents)
	require.NotNil(t, resp.OpeningDate)
	assert.Equal(t, "2024-03-15", *resp.OpeningDate)

	_, apierr := f.biddings.CreateBidding(context.Background(), editor, &contract.BiddingRequest{
		Number:   "001/2024",
		Modality: "Pregão",
		Object:   "Outro objeto",
	})
	assert.Equal(t, apierror.DuplicateBiddingError, apierr)
}

func TestCreateBidding_Rejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, apierr := f.biddings.CreateBidding(ctx, editor, &contract.BiddingRequest{
		Number: "002/2024", Modality: "Pregão", Object: "Obras", Status: "EM_ANALISE",
	})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	bad := "12.345.678/0001-00"
	_, apierr = f.biddings.CreateBidding(ctx, editor, &contract.BiddingRequest{
		Number: "003/2024", Modality: "Pregão", Object: "Obras", SupplierCNPJ: &bad,
	})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	_, apierr = f.biddings.CreateBidding(ctx, author, &contract.BiddingRequest{
		Number: "004/2024", Modality: "Pregão", Object: "Obras",
	})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusForbidden, apierr.Code())

	_, apierr = f.biddings.CreateBidding(ctx, editor, &contract.BiddingRequest{
		Number: "004 / 2024", Modality: "Pregão", Object: "Obras",
	})
	require.IsType(t, &apierror.StructuredError{}, apierr)
	assert.Contains(t, apierr.(*apierror.StructuredError).Errors, "number")
}

func TestAddMovement_AdvancesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bidding := createBidding(t, f, "005/2024", false)

	resp, apierr := f.biddings.AddMovement(ctx, editor, bidding.ID, &contract.MovementRequest{
		Phase:       "abertura",
		Description: "Edital publicado no diário oficial",
	})
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.PhaseAbertura), resp.Status)
	require.Len(t, resp.Movements, 1)
	assert.Equal(t, string(entity.PhaseAbertura), resp.Movements[0].Phase)

	_, apierr = f.biddings.AddMovement(ctx, editor, bidding.ID, &contract.MovementRequest{
		Phase:       "Homologação",
		Description: "Resultado homologado",
	})
	require.Nil(t, apierr)

	resp, apierr = f.biddings.GetBidding(ctx, editor, bidding.ID)
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.PhaseHomologacao), resp.Status)
	require.Len(t, resp.Movements, 2)
	assert.Equal(t, string(entity.PhaseHomologacao), resp.Movements[0].Phase)

	_, apierr = f.biddings.AddMovement(ctx, editor, bidding.ID, &contract.MovementRequest{Phase: "Férias", Description: "Nada"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())

	_, apierr = f.biddings.AddMovement(ctx, editor, 999, &contract.MovementRequest{Phase: "Abertura", Description: "Nada"})
	assert.Equal(t, apierror.BiddingNotFoundError, apierr)
}

func TestAddDocument_PhaseGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bidding := createBidding(t, f, "006/2024", true)

	tests := []struct {
		name string
		req  *contract.BiddingDocumentRequest
	}{
		{
			name: "edital outside abertura",
			req:  &contract.BiddingDocumentRequest{DocumentType: "Edital", Phase: "Planejamento", Title: "Edital"},
		},
		{
			name: "contrato in julgamento",
			req:  &contract.BiddingDocumentRequest{DocumentType: "CONTRATO", Phase: "JULGAMENTO", Title: "Contrato"},
		},
		{
			name: "anexo without number",
			req:  &contract.BiddingDocumentRequest{DocumentType: "Anexo", Phase: "Abertura", Title: "Anexo I"},
		},
		{
			name: "unknown type",
			req:  &contract.BiddingDocumentRequest{DocumentType: "Memorando", Phase: "Abertura", Title: "Memorando"},
		},
		{
			name: "unknown status",
			req:  &contract.BiddingDocumentRequest{DocumentType: "Edital", Phase: "Abertura", Title: "Edital", Status: ptr("VISIVEL")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, apierr := f.biddings.AddDocument(ctx, editor, bidding.ID, tt.req, fileHeader(t, "doc.pdf", pdfContent))
			require.NotNil(t, apierr)
			assert.Equal(t, http.StatusBadRequest, apierr.Code())
		})
	}

	assert.Empty(t, storedFiles(t, f))
}

func TestAddDocument_PublicViewShowsPublishedOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bidding := createBidding(t, f, "007/2024", true)

	draft, apierr := f.biddings.AddDocument(ctx, editor, bidding.ID, &contract.BiddingDocumentRequest{
		DocumentType: "Edital", Phase: "Abertura", Title: "Edital completo",
	}, fileHeader(t, "edital.pdf", pdfContent))
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.StatusDocumentoDraft), draft.Status)
	assert.Nil(t, draft.PublishedAt)

	anexo := 2
	published, apierr := f.biddings.AddDocument(ctx, editor, bidding.ID, &contract.BiddingDocumentRequest{
		DocumentType: "anexo", Phase: "abertura", Title: "Anexo II", NumeroAnexo: &anexo, Status: ptr("publicado"),
	}, fileHeader(t, "anexo.pdf", pdfContent))
	require.Nil(t, apierr)
	assert.Equal(t, string(entity.TipoAnexo), published.DocumentType)
	assert.Equal(t, &anexo, published.NumeroAnexo)
	assert.NotNil(t, published.PublishedAt)

	public, apierr := f.biddings.GetPublic(ctx, bidding.ID)
	require.Nil(t, apierr)
	require.Len(t, public.Documents, 1)
	assert.Equal(t, published.ID, public.Documents[0].ID)

	_, apierr = f.biddings.ChangeDocumentStatus(ctx, editor, bidding.ID, draft.ID, &contract.BiddingDocumentStatusRequest{Status: "PUBLISHED"})
	require.Nil(t, apierr)

	public, apierr = f.biddings.GetPublic(ctx, bidding.ID)
	require.Nil(t, apierr)
	assert.Len(t, public.Documents, 2)
}

func TestGetPublic_HidesUnpublishedBidding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hidden := createBidding(t, f, "008/2024", false)
	shown := createBidding(t, f, "009/2024", true)

	_, apierr := f.biddings.GetPublic(ctx, hidden.ID)
	assert.Equal(t, apierror.BiddingNotFoundError, apierr)

	list, apierr := f.biddings.ListPublic(ctx, "")
	require.Nil(t, apierr)
	require.Len(t, list, 1)
	assert.Equal(t, shown.ID, list[0].ID)
}

func ptr[T any](v T) *T {
	return &v
}

func TestUpdateBidding_KeepsConcurrentMovement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := createBidding(t, f, "020/2024", true)

	racing := &racingBiddings{BiddingStore: f.biddingRepo}
	racing.meanwhile = func() {
		_, apierr := f.biddings.AddMovement(ctx, editor, created.ID, &contract.MovementRequest{
			Phase:       "Julgamento",
			Description: "Sessão de julgamento realizada",
		})
		require.Nil(t, apierr)
	}
	biddings := NewBiddingService(racing, f.files, f.publicCache, f.validate)

	object := "Aquisição de merenda escolar e utensílios"
	resp, apierr := biddings.UpdateBidding(ctx, editor, created.ID, &contract.UpdateBiddingRequest{Object: &object})
	require.Nil(t, apierr)

	assert.Equal(t, object, resp.Object)
	assert.Equal(t, string(entity.PhaseJulgamento), resp.Status)
	require.Len(t, resp.Movements, 1)

	var stored entity.Bidding
	require.NoError(t, f.db.First(&stored, created.ID).Error)
	assert.Equal(t, entity.PhaseJulgamento, stored.Status)
	assert.Equal(t, object, stored.Object)
}

func TestUpdateBidding_UnknownID(t *testing.T) {
	f := newFixture(t)

	object := "Qualquer objeto"
	_, apierr := f.biddings.UpdateBidding(context.Background(), editor, 999, &contract.UpdateBiddingRequest{Object: &object})
	assert.Equal(t, apierror.BiddingNotFoundError, apierr)
}
