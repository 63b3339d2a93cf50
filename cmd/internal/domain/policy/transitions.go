package policy

import (
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/utils/apierror"
)

// transitionTable lists every legal document status edge and the capability it requires.
var transitionTable = map[entity.DocumentStatus]map[entity.DocumentStatus]entity.Capability{
	entity.DocumentDraft: {
		entity.DocumentPending: entity.CapSubmitDocuments,
	},
	entity.DocumentPending: {
		entity.DocumentPublished: entity.CapApproveDocuments,
		entity.DocumentDraft:     entity.CapApproveDocuments,
	},
	entity.DocumentPublished: {
		entity.DocumentArchived: entity.CapArchiveDocuments,
	},
	entity.DocumentArchived: {
		entity.DocumentDraft: entity.CapArchiveDocuments,
	},
}

// Transition names one request to move a document from an expected state to a target.
type Transition struct {
	From entity.DocumentStatus
	To   entity.DocumentStatus
}

var (
	SubmitTransition    = Transition{From: entity.DocumentDraft, To: entity.DocumentPending}
	ApproveTransition   = Transition{From: entity.DocumentPending, To: entity.DocumentPublished}
	RejectTransition    = Transition{From: entity.DocumentPending, To: entity.DocumentDraft}
	UnpublishTransition = Transition{From: entity.DocumentPublished, To: entity.DocumentArchived}
	RestoreTransition   = Transition{From: entity.DocumentArchived, To: entity.DocumentDraft}
)

// RequiredCapability returns the capability needed for the edge, false when
// the edge does not exist.
func RequiredCapability(from, to entity.DocumentStatus) (entity.Capability, bool) {
	targets, ok := transitionTable[from]
	if !ok {
		return "", false
	}
	capability, ok := targets[to]
	return capability, ok
}

// CanPerform only checks the actor side of a transition, so a caller lacking
// the capability gets a 403 before the document is even read.
func (t Transition) CanPerform(actor *entity.Actor) apierror.ErrorResponse {
	capability, ok := RequiredCapability(t.From, t.To)
	if !ok {
		return apierror.NewBadRequestError("Unknown status transition")
	}
	return Authorize(actor, capability)
}

// CheckSource fails with a state conflict naming the current status when the
// document is not in the transition's source state.
func (t Transition) CheckSource(current entity.DocumentStatus) apierror.ErrorResponse {
	if current != t.From {
		return apierror.NewStateConflictError(string(current), string(t.To))
	}
	return nil
}
