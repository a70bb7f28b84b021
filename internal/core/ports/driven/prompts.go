package driven

// Prompt names for the PromptStore.
const (
	// PromptClarify is the system prompt for query clarification.
	PromptClarify = "clarify"

	// PromptSynthesize is the template for answer synthesis. It takes
	// two format arguments: the context block and the question.
	PromptSynthesize = "synthesize"
)

// PromptStore loads LLM prompt templates. Implementations may read
// user-editable files with embedded defaults as fallback.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
