package llm

// Prompt rendering for Llama-2 chat models. Each template is an explicit
// function over named parameters rather than a positional format string,
// so a malformed call fails to compile instead of producing a broken
// prompt at runtime.

// RenderChat wraps a system message and a user prompt in the model's chat
// meta-template, opening a new conversation.
func RenderChat(systemMessage, prompt string) string {
	return "<s>[INST] <<SYS>>\n" + systemMessage + "\n<</SYS>>\n\n" + prompt + " [/INST] "
}

// RenderContinuation appends one exchange to an ongoing conversation: the
// model's previous response followed by the next user prompt.
func RenderContinuation(response, prompt string) string {
	return response + "</s><s>[INST] " + prompt + " [/INST] "
}

// RenderQuestion renders a bare question prompt.
func RenderQuestion(question string) string {
	return "Question: " + question
}

// RenderContextQuestion renders a question preceded by a background text
// passage.
func RenderContextQuestion(context, question string) string {
	return context + "\n\nQuestion: " + question
}
