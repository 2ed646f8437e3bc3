// Package decision invokes the adjudication agent on extracted document text
// and records its verdict as a durable decision record.
package decision

import (
	"context"
	"strings"
)

// Invoker is the external LLM endpoint: one text prompt in, one text
// completion out. The completion is not guaranteed to be well-formed JSON.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// agentInstruction is the fixed adjudicator role prepended to every prompt.
// Documents that are not grant applications must be denied outright.
const agentInstruction = `You are a Grants Application processing agent. You approve, escalate or deny grant applications based on the application text and the instructions provided. If the document is not a grant application, immediately respond with a denial. You base your decisions on the available budget and resources at the disposal of the Australian Federal Government. You must reply with a JSON object containing the following fields:
{ "decision": "APPROVE" | "DENY" | "ESCALATE", "strengths": "a string containing the strengths of the application", "weaknesses": "a string containing the weaknesses of the application", "reason": "a string containing the main reason for your decision" }`

// BuildPrompt concatenates the fixed instruction with the extracted document
// text.
func BuildPrompt(extractedText string) string {
	var b strings.Builder
	b.WriteString(agentInstruction)
	b.WriteString("\n\nApplication document text:\n")
	b.WriteString(extractedText)
	return b.String()
}
