package policy

import (
	"fmt"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/utils/normalize"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

func phases(ps ...entity.Phase) mapset.Set[entity.Phase] {
	return mapset.NewThreadUnsafeSet(ps...)
}

// allowedPhases maps every bidding document type to the phases it may be attached in.
// The table is read-only after init.
var allowedPhases = map[entity.TipoDocumento]mapset.Set[entity.Phase]{
	entity.TipoEdital:                  phases(entity.PhaseAbertura),
	entity.TipoAvisoLicitacao:          phases(entity.PhasePlanejamento, entity.PhaseAbertura),
	entity.TipoTermoReferencia:         phases(entity.PhasePlanejamento, entity.PhaseAbertura),
	entity.TipoEstudoTecnicoPreliminar: phases(entity.PhasePlanejamento),
	entity.TipoAnexo: phases(entity.PhasePlanejamento, entity.PhaseAbertura, entity.PhaseJulgamento,
		entity.PhaseContratacao, entity.PhaseExecucao),
	entity.TipoEsclarecimento:      phases(entity.PhaseAbertura),
	entity.TipoImpugnacao:          phases(entity.PhaseAbertura),
	entity.TipoErrata:              phases(entity.PhaseAbertura, entity.PhaseJulgamento),
	entity.TipoAtaSessao:           phases(entity.PhaseJulgamento),
	entity.TipoResultadoJulgamento: phases(entity.PhaseJulgamento),
	entity.TipoRecurso:             phases(entity.PhaseRecurso),
	entity.TipoDecisaoRecurso:      phases(entity.PhaseRecurso),
	entity.TipoTermoHomologacao:    phases(entity.PhaseHomologacao),
	entity.TipoContrato:            phases(entity.PhaseContratacao),
	entity.TipoOrdemServico:        phases(entity.PhaseContratacao, entity.PhaseExecucao),
	entity.TipoTermoAditivo:        phases(entity.PhaseExecucao),
	entity.TipoTermoEncerramento:   phases(entity.PhaseEncerramento),
}

// Free text aliases accepted by NormalizeTipoDocumento, keyed by canonical token.
var tipoDocumentoAliases = map[string]entity.TipoDocumento{
	"AVISO":                          entity.TipoAvisoLicitacao,
	"AVISO_DE_LICITACAO":             entity.TipoAvisoLicitacao,
	"TR":                             entity.TipoTermoReferencia,
	"TERMO_DE_REFERENCIA":            entity.TipoTermoReferencia,
	"ETP":                            entity.TipoEstudoTecnicoPreliminar,
	"ESTUDO_TECNICO":                 entity.TipoEstudoTecnicoPreliminar,
	"PEDIDO_DE_ESCLARECIMENTO":       entity.TipoEsclarecimento,
	"ATA":                            entity.TipoAtaSessao,
	"ATA_DA_SESSAO":                  entity.TipoAtaSessao,
	"ATA_DE_SESSAO":                  entity.TipoAtaSessao,
	"RESULTADO":                      entity.TipoResultadoJulgamento,
	"RESULTADO_DO_JULGAMENTO":        entity.TipoResultadoJulgamento,
	"DECISAO_DO_RECURSO":             entity.TipoDecisaoRecurso,
	"HOMOLOGACAO":                    entity.TipoTermoHomologacao,
	"TERMO_DE_HOMOLOGACAO":           entity.TipoTermoHomologacao,
	"OS":                             entity.TipoOrdemServico,
	"ORDEM_DE_SERVICO":               entity.TipoOrdemServico,
	"ADITIVO":                        entity.TipoTermoAditivo,
	"TERMO_ADITIVO_AO_CONTRATO":      entity.TipoTermoAditivo,
	"ENCERRAMENTO":                   entity.TipoTermoEncerramento,
	"TERMO_DE_ENCERRAMENTO":          entity.TipoTermoEncerramento,
	"TERMO_DE_ENCERRAMENTO_CONTRATO": entity.TipoTermoEncerramento,
}

// NormalizeTipoDocumento canonicalizes free text into one of the 17 types.
// It returns false for unrecognized input, which callers must reject.
func NormalizeTipoDocumento(raw string) (entity.TipoDocumento, bool) {
	token := normalize.CanonicalToken(raw)
	if token == "" {
		return "", false
	}

	tipo := entity.TipoDocumento(token)
	if _, ok := allowedPhases[tipo]; ok {
		return tipo, true
	}

	if alias, ok := tipoDocumentoAliases[token]; ok {
		return alias, true
	}
	return "", false
}

// NormalizeStatusDocumento accepts DRAFT/PUBLISHED and the legacy
// RASCUNHO/PUBLICADO pair. It returns false for anything else.
func NormalizeStatusDocumento(raw string) (entity.StatusDocumento, bool) {
	switch normalize.CanonicalToken(raw) {
	case "DRAFT", "RASCUNHO":
		return entity.StatusDocumentoDraft, true
	case "PUBLISHED", "PUBLICADO":
		return entity.StatusDocumentoPublished, true
	}
	return "", false
}

// NormalizePhase accepts a phase name in any case, with or without accents.
func NormalizePhase(raw string) (entity.Phase, bool) {
	phase := entity.Phase(normalize.CanonicalToken(raw))
	switch phase {
	case entity.PhasePlanejamento, entity.PhaseAbertura, entity.PhaseJulgamento,
		entity.PhaseHomologacao, entity.PhaseRecurso, entity.PhaseContratacao,
		entity.PhaseExecucao, entity.PhaseEncerramento:
		return phase, true
	}
	return "", false
}

// AllowedPhases lists the phases a document type may be attached in, in lifecycle order.
func AllowedPhases(tipo entity.TipoDocumento) []entity.Phase {
	set, ok := allowedPhases[tipo]
	if !ok {
		return nil
	}

	var out []entity.Phase
	for _, p := range phaseOrder {
		if set.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

var phaseOrder = []entity.Phase{
	entity.PhasePlanejamento, entity.PhaseAbertura, entity.PhaseJulgamento,
	entity.PhaseHomologacao, entity.PhaseRecurso, entity.PhaseContratacao,
	entity.PhaseExecucao, entity.PhaseEncerramento,
}

// ValidateTipoDocumentoPhase returns nil when the type may be attached in the
// phase, or an error describing why it may not.
func ValidateTipoDocumentoPhase(documentType entity.TipoDocumento, phase entity.Phase) error {
	if phase == "" {
		return fmt.Errorf("phase is required for document type %s", documentType)
	}

	allowed, ok := allowedPhases[documentType]
	if !ok {
		return fmt.Errorf("unknown document type: %s", documentType)
	}

	if !allowed.Contains(phase) {
		return fmt.Errorf("document type %s is not allowed in phase %s, allowed: %s",
			documentType, phase, joinPhases(AllowedPhases(documentType)))
	}
	return nil
}

// ValidateAnexoFields requires a positive attachment number on ANEXO documents.
func ValidateAnexoFields(documentType entity.TipoDocumento, numeroAnexo *int) error {
	if documentType != entity.TipoAnexo {
		return nil
	}

	if numeroAnexo == nil {
		return fmt.Errorf("attachment number is required for %s documents", entity.TipoAnexo)
	}

	if *numeroAnexo <= 0 {
		return fmt.Errorf("attachment number must be a positive integer, got %d", *numeroAnexo)
	}
	return nil
}

func joinPhases(ps []entity.Phase) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
