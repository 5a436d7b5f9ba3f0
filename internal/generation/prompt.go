package generation

import (
	"fmt"
	"strings"
)

// DefaultPrompt is used when the request is image-only.
const DefaultPrompt = "A beautiful image"

// RealismClause is appended verbatim for the "realistic" theme.
const RealismClause = "Ensure absolute realism. Maintain facial likeness accurately to the reference image. Prioritize realistic skin texture, hair detail, and natural body proportions."

// AfriconPrompt replaces the user prompt entirely for the "africon" theme.
const AfriconPrompt = "Create a semi-realistic full body image of the person in the reference photo standing beside an androgynous humanoid AI companion. The AI should have a sleek, human-like design with subtle synthetic details — smooth brown skin, expressive eyes, human-like height and body proportions and a warm, approachable face that conveys friendliness and collaboration. The robot is wearing a white t-shirt with the word ‘AFRICON’ written in bold blue letters on the front, fitted jeans, and high-top sneakers. The t-shirt should have a minimal blue kente pattern on the sleeve edges. The human and AI should appear happy and connected, showing a sense of partnership — for example, a handshake, a side-by-side pose with the robot’s hand on the person’s shoulder, or a shared smile. Maintain facial likeness accurately to the reference image. Prioritize realistic skin texture, hair detail, and natural proportions. Use soft, natural lighting and a minimalist professional background."

// ComposePrompt builds the prompt actually sent to the provider. Themes are
// matched case-insensitively:
//
//   - "africon" discards the user prompt and uses the fixed template
//   - "realistic" appends the realism clause
//   - anything else appends ", <theme> style" with the theme lowercased
//
// Without a theme the user prompt passes through verbatim, falling back to
// DefaultPrompt for image-only requests.
func ComposePrompt(prompt, theme string) string {
	full := prompt
	if full == "" {
		full = DefaultPrompt
	}

	if theme == "" {
		return full
	}

	switch strings.ToLower(theme) {
	case "africon":
		return AfriconPrompt
	case "realistic":
		return fmt.Sprintf("%s, %s", full, RealismClause)
	default:
		return fmt.Sprintf("%s, %s style", full, strings.ToLower(theme))
	}
}
