package narration

import (
	"context"
	"strings"
)

// Role is the slide's position within the deck. It changes how the
// generator frames the narration: openings greet, closings wrap up,
// standalone passages get neither.
type Role string

const (
	RoleFirst      Role = "first"
	RoleLast       Role = "last"
	RoleMiddle     Role = "middle"
	RoleStandalone Role = "standalone"
)

// Request is one narration unit of work. SlideText is expected to be
// truncated to the caller's character budget already.
type Request struct {
	SlideText string
	Role      Role
}

// Generator produces spoken narration text for a passage.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// RoleFor derives the positional role of slide i within a capped list of
// count slides. The first slide wins the boundary when count == 1.
func RoleFor(i, count int) Role {
	switch {
	case i == 0:
		return RoleFirst
	case i == count-1:
		return RoleLast
	default:
		return RoleMiddle
	}
}

// Truncate caps s at limit runes. Budgets keep prompts inside the
// generator's context window and bound per-call cost.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

const systemPrompt = `You write spoken narration for presentation slides.

Rules:
- 2-4 sentences, natural speaking rhythm, present tense.
- Describe what the slide conveys; do not read it verbatim.
- No meta commentary ("this slide shows"), no markdown, no lists.
- Keep the same language as the slide content.
- Output plain narration text only.`

// BuildPrompt constructs the system and user prompts for a request.
// Deterministic: same request, same prompts.
func BuildPrompt(req Request) (system, user string) {
	var b strings.Builder

	switch req.Role {
	case RoleFirst:
		b.WriteString("This is the opening slide of the presentation. Start the narration with a brief welcome that leads into the content.\n")
	case RoleLast:
		b.WriteString("This is the final slide of the presentation. End the narration with a short closing remark.\n")
	case RoleMiddle:
		b.WriteString("This slide continues the presentation. Narrate it as a smooth continuation.\n")
	case RoleStandalone:
		// A single passage with no deck framing.
	}

	b.WriteString("Slide content:\n")
	b.WriteString(req.SlideText)

	return systemPrompt, b.String()
}
