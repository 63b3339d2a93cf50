package entity

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Role is the single role claim carried by admin tokens.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEditor   Role = "EDITOR"
	RoleApprover Role = "APPROVER"
	RoleAuthor   Role = "AUTHOR"
)

// ParseRole returns false for anything outside the fixed role set.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	switch role {
	case RoleAdmin, RoleEditor, RoleApprover, RoleAuthor:
		return role, true
	}
	return "", false
}

// Capability is a single action an actor may be allowed to perform.
// Handlers never compare roles directly, they ask for a capability.
type Capability string

const (
	// CapCreateDocuments allows creating documents and editing their metadata.
	CapCreateDocuments Capability = "create_documents"

	// CapSubmitDocuments allows sending a draft to the approval queue.
	CapSubmitDocuments Capability = "submit_documents"

	// CapApproveDocuments allows publishing (or rejecting) pending documents.
	CapApproveDocuments Capability = "approve_documents"

	// CapArchiveDocuments allows archiving published documents and restoring
	// archived ones. Reserved to the highest role.
	CapArchiveDocuments Capability = "archive_documents"

	// CapManageVersions allows uploading versions and changing the current one.
	CapManageVersions Capability = "manage_versions"

	// CapManageBiddings allows creating biddings, movements and attachments.
	CapManageBiddings Capability = "manage_biddings"

	// CapManageTaxonomy allows editing document areas and categories.
	CapManageTaxonomy Capability = "manage_taxonomy"

	// CapManageContent allows editing news, services and projects.
	CapManageContent Capability = "manage_content"

	// CapPublishContent allows publishing or scheduling news.
	CapPublishContent Capability = "publish_content"

	// CapViewAdmin allows reading admin listings (drafts, history).
	CapViewAdmin Capability = "view_admin"
)

var roleCapabilities = map[Role]mapset.Set[Capability]{
	RoleAdmin: mapset.NewSet(
		CapCreateDocuments, CapSubmitDocuments, CapApproveDocuments, CapArchiveDocuments,
		CapManageVersions, CapManageBiddings, CapManageTaxonomy, CapManageContent,
		CapPublishContent, CapViewAdmin,
	),
	RoleEditor: mapset.NewSet(
		CapCreateDocuments, CapSubmitDocuments, CapManageVersions, CapManageBiddings,
		CapManageContent, CapPublishContent, CapViewAdmin,
	),
	RoleApprover: mapset.NewSet(
		CapApproveDocuments, CapPublishContent, CapViewAdmin,
	),
	RoleAuthor: mapset.NewSet(
		CapCreateDocuments, CapSubmitDocuments, CapManageContent, CapViewAdmin,
	),
}

// Has reports whether the role grants the capability. Unknown roles grant nothing.
func (r Role) Has(capability Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	return caps.Contains(capability)
}

// Actor is the authenticated caller, as read from the bearer token.
type Actor struct {
	UserID int64
	Role   Role
}
