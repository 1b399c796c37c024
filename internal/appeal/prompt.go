// Package appeal assembles the instruction sent to the chat model.
package appeal

import (
	"fmt"
)

const promptTemplate = `You are an expert in health insurance claim appeals. Write a formal, persuasive appeal letter contesting the denied claim described below.

Use the Explanation of Benefits, the medical records and the denial letter to:
- identify the denied service, claim number and denial reason,
- argue why the service is medically necessary and covered under the plan,
- cite the supporting evidence from the medical records,
- request a full review and reversal of the denial.

Write the letter from the patient, %s, addressed to the insurance company's appeals department. Use a professional tone and return only the letter text.

Explanation of Benefits (EOB):
%s

Medical Records:
%s

Denial Letter:
%s
`

// BuildPrompt returns the appeal instruction for the given document texts.
func BuildPrompt(eob, medical, denial, patientName string) string {
	return fmt.Sprintf(promptTemplate, patientName, eob, medical, denial)
}
