package prompt

import (
	"fmt"

	"github.com/decisionloom/decisionloom/internal/domain"
)

// ArtifactUpdateMarker separates conversational text from a full revised
// document in a refinement response. Everything after the marker replaces
// the stored artifact.
const ArtifactUpdateMarker = "---ARTIFACT_UPDATE---"

// RefineSystem builds the system prompt for the refinement chat. The
// caller supplies the user's message as the conversation turn.
func RefineSystem(artifactType domain.ArtifactType, contentMd string) string {
	docName := "Technical Specifications"
	if artifactType == domain.ArtifactPRD {
		docName = "Product Requirements Documents (PRDs)"
	}

	return fmt.Sprintf(`You are a helpful assistant that helps refine %s.

The user has generated the following document:

---
%s
---

Your role is to:
1. Answer questions about the document
2. Suggest improvements when asked
3. Help clarify sections
4. Make specific edits when requested

When responding:
- Be concise and helpful
- If the user asks for changes, describe what you would change
- If you're making substantial edits to the document, include the marker "%s" followed by the complete updated document
- Only include the artifact update marker if you're providing a full revised version of the document

Keep your responses focused and actionable.`, docName, contentMd, ArtifactUpdateMarker)
}
