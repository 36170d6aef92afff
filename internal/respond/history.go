package respond

import "github.com/threadcart/supportbot/internal/llm"

// lastTurns trims prior conversation history to the most recent maxTurns
// user→assistant exchanges, preserving order (oldest of the kept turns
// first). A trailing unpaired user message counts as a turn of its own.
func lastTurns(history []llm.Message, maxTurns int) []llm.Message {
	if maxTurns < 1 || len(history) == 0 {
		return nil
	}

	// Walk backwards counting turn boundaries: each user message closes the
	// turn it starts.
	turns := 0
	start := 0
	for idx := len(history) - 1; idx >= 0; idx-- {
		if history[idx].Role == llm.RoleUser {
			turns++
			if turns == maxTurns {
				start = idx
				break
			}
		}
	}
	return history[start:]
}
