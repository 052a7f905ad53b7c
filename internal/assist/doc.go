// Package assist talks to a local Ollama server to obtain document edits.
//
// The client sends the user's message together with the current document
// and the conversation so far to Ollama's chat endpoint, then splits the
// reply into the text shown to the user and a candidate document. A reply
// that opens with a fenced code block yields the block content as the
// candidate.
package assist
