package assist

import "strings"

const systemPromptHead = `You are a helpful AI assistant that helps users modify HTML, CSS, and JavaScript code.
You should provide code suggestions based on user requests.
Always return ONLY the complete, updated HTML code (including any CSS in <style> tags and JavaScript in <script> tags).
Do not include explanations or markdown formatting - just return the raw HTML code.
The user's current code is:
` + "```html\n"

const systemPromptTail = "\n```\n\nBased on the user's request, provide the modified HTML code."

// BuildSystemPrompt embeds document in the instructions sent as the first
// chat message.
func BuildSystemPrompt(document string) string {
	var b strings.Builder
	b.Grow(len(systemPromptHead) + len(document) + len(systemPromptTail))
	b.WriteString(systemPromptHead)
	b.WriteString(document)
	b.WriteString(systemPromptTail)
	return b.String()
}

// buildMessages orders the chat: system prompt, history, then the new message.
func buildMessages(req Request) []chatMessage {
	msgs := make([]chatMessage, 0, len(req.History)+2)
	msgs = append(msgs, chatMessage{Role: "system", Content: BuildSystemPrompt(req.CurrentDocument)})
	for _, m := range req.History {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.Message})
	return msgs
}
