package policy

import (
	"portalmunicipal/cmd/internal/domain/entity"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTipoDocumentoPhase(t *testing.T) {
	tests := []struct {
		name    string
		tipo    entity.TipoDocumento
		phase   entity.Phase
		wantErr bool
	}{
		{name: "edital in abertura", tipo: entity.TipoEdital, phase: entity.PhaseAbertura},
		{name: "edital in julgamento", tipo: entity.TipoEdital, phase: entity.PhaseJulgamento, wantErr: true},
		{name: "contrato in contratacao", tipo: entity.TipoContrato, phase: entity.PhaseContratacao},
		{name: "contrato in execucao", tipo: entity.TipoContrato, phase: entity.PhaseExecucao, wantErr: true},
		{name: "ordem de servico in contratacao", tipo: entity.TipoOrdemServico, phase: entity.PhaseContratacao},
		{name: "ordem de servico in execucao", tipo: entity.TipoOrdemServico, phase: entity.PhaseExecucao},
		{name: "missing phase", tipo: entity.TipoEdital, phase: "", wantErr: true},
		{name: "unknown type", tipo: "MEMORANDO", phase: entity.PhaseAbertura, wantErr: true},
		{name: "encerramento", tipo: entity.TipoTermoEncerramento, phase: entity.PhaseEncerramento},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTipoDocumentoPhase(tt.tipo, tt.phase)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTipoDocumentoPhase_MessageListsAllowedPhases(t *testing.T) {
	err := ValidateTipoDocumentoPhase(entity.TipoOrdemServico, entity.PhaseAbertura)
	assert.EqualError(t, err, "document type ORDEM_SERVICO is not allowed in phase ABERTURA, allowed: CONTRATACAO, EXECUCAO")
}

func TestAllowedPhases_CoversSeventeenTypes(t *testing.T) {
	assert.Len(t, allowedPhases, 17)
	for tipo := range allowedPhases {
		assert.NotEmpty(t, AllowedPhases(tipo), tipo)
	}
	assert.Nil(t, AllowedPhases("MEMORANDO"))
}

func TestValidateAnexoFields(t *testing.T) {
	zero, three, negative := 0, 3, -1

	assert.Error(t, ValidateAnexoFields(entity.TipoAnexo, &zero))
	assert.Error(t, ValidateAnexoFields(entity.TipoAnexo, &negative))
	assert.Error(t, ValidateAnexoFields(entity.TipoAnexo, nil))
	assert.NoError(t, ValidateAnexoFields(entity.TipoAnexo, &three))
	assert.NoError(t, ValidateAnexoFields(entity.TipoEdital, nil))
}

func TestNormalizeTipoDocumento(t *testing.T) {
	tests := []struct {
		in   string
		want entity.TipoDocumento
		ok   bool
	}{
		{in: "EDITAL", want: entity.TipoEdital, ok: true},
		{in: "edital", want: entity.TipoEdital, ok: true},
		{in: "Termo de Referência", want: entity.TipoTermoReferencia, ok: true},
		{in: "ordem de serviço", want: entity.TipoOrdemServico, ok: true},
		{in: "ordem-servico", want: entity.TipoOrdemServico, ok: true},
		{in: "ETP", want: entity.TipoEstudoTecnicoPreliminar, ok: true},
		{in: "Aditivo", want: entity.TipoTermoAditivo, ok: true},
		{in: "anexo", want: entity.TipoAnexo, ok: true},
		{in: "memorando", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeTipoDocumento(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeStatusDocumento(t *testing.T) {
	tests := []struct {
		in   string
		want entity.StatusDocumento
		ok   bool
	}{
		{in: "DRAFT", want: entity.StatusDocumentoDraft, ok: true},
		{in: "rascunho", want: entity.StatusDocumentoDraft, ok: true},
		{in: "Published", want: entity.StatusDocumentoPublished, ok: true},
		{in: "PUBLICADO", want: entity.StatusDocumentoPublished, ok: true},
		{in: "ARCHIVED", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeStatusDocumento(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhase(t *testing.T) {
	got, ok := NormalizePhase("homologação")
	assert.True(t, ok)
	assert.Equal(t, entity.PhaseHomologacao, got)

	_, ok = NormalizePhase("FASE_X")
	assert.False(t, ok)
}
