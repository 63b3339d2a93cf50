package policy

import (
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/utils/normalize"
	"strings"
)

var (
	// Governance documents are versionable only when they are "rule" documents.
	governanceRuleKeywords = []string{
		"regimento", "norma", "politica", "diretriz", "procedimento",
		"manual", "codigo", "resolucao", "instrucao",
	}

	// A contract is never versioned, only its amendments are.
	contractAmendmentKeywords = []string{
		"aditivo", "retificacao", "prorrogacao", "apostilamento",
	}
)

// CanCreateNewVersion decides whether a document of the given category macro
// and type may receive a new version.
//
// Matching is a plain substring search over the lowercased, accent folded type.
// It is known to be imprecise ("normal" matches "norma") and is kept that way
// for compatibility with existing data.
func CanCreateNewVersion(categoryMacro, documentType string) bool {
	macro := entity.CategoryMacro(strings.ToUpper(strings.TrimSpace(categoryMacro)))
	docType := normalize.FoldLower(documentType)

	switch macro {
	case entity.MacroInstitucional:
		return false
	case entity.MacroGovernancaGestao:
		return containsAny(docType, governanceRuleKeywords)
	case entity.MacroNormativosInternos:
		return true
	case entity.MacroContratosParcerias:
		return containsAny(docType, contractAmendmentKeywords)
	case entity.MacroPrestacaoContas, entity.MacroDocumentosOficiais:
		return false
	default:
		return false
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
