package appeal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("EOB TEXT", "MEDICAL TEXT", "DENIAL TEXT", "Jane Doe")

	assert.Contains(t, prompt, "from the patient, Jane Doe,")

	eob := strings.Index(prompt, "EOB TEXT")
	medical := strings.Index(prompt, "MEDICAL TEXT")
	denial := strings.Index(prompt, "DENIAL TEXT")
	assert.True(t, eob > 0 && eob < medical && medical < denial, "documents out of order")
}

func TestBuildPromptKeepsPlaceholderName(t *testing.T) {
	prompt := BuildPrompt("a", "b", "c", "[Patient Name]")
	assert.Contains(t, prompt, "[Patient Name]")
}
