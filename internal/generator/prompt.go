package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"codeberg.org/promptgrid/server/internal/axes"
)

// fixed instruction contract for the upstream model: 10-second
// single-shot video prompts, strict character ceiling, one grid cell
// per axis-option pair
const systemPrompt = `You are an expert Sora 2 prompt architect. Every output must be a single self contained prompt that:
- Targets a 10-second video with the opening line "10-second video. Camera and exposure locked unless specified."
- Uses 1-3 beats max with timestamps or counts, calling out location, framing, motion, lighting, and one signature effect.
- Includes micro choreography (counts 1-8 or 0.0s-10.0s) with clear actions and one twist.
- Specifies audio: BPM or groove, 2-3 sound effects, and optional dialogue under 10 words.
- Notes loop logic when helpful so last frame can reconnect to the first.
- Obeys rights and safety: use cameo tags for living people (@username) or swap to fictional/historical/cartoon stand-ins. Avoid trademarks unless generic.
- Keeps each prompt under 1800 characters.
Return responses as JSON only when asked.`

// builds the user instructions embedding the idea and both axes' options
// with explicit row/column alignment
func buildUserPrompt(idea string, axisA, axisB axes.Axis) string {
	return strings.Join([]string{
		"Create four Sora 2 ready prompts arranged in a 2x2 grid.",
		fmt.Sprintf("User idea: %s", idea),
		fmt.Sprintf("Axis A (%s) defines the columns: column 0 = %s, column 1 = %s.",
			axisA.Name, axisA.Options[0], axisA.Options[1]),
		fmt.Sprintf("Axis B (%s) defines the rows: row 0 = %s, row 1 = %s.",
			axisB.Name, axisB.Options[0], axisB.Options[1]),
		`Return JSON with this shape: { "grid": [[{ "title": string, "prompt": string }, ...], [...]] }. grid[0][0] must align with column 0 + row 0 (Axis A option 0 + Axis B option 0); grid[0][1] aligns with column 1 + row 0; grid[1][0] aligns with column 0 + row 1; grid[1][1] aligns with column 1 + row 1.`,
		"Each title should be 3-6 words combining the axis choices and hinting at the twist.",
		"Each prompt must obey the system instructions, stay under 1800 characters, and be ready to paste directly into Sora 2. Do not add commentary or markdown.",
	}, "\n\n")
}

const maxTitleLength = 80

// synthesizes a title from the option pair when the model gave none,
// and truncates anything over the 80-character ceiling
func formatTitle(title, axisAOption, axisBOption string) string {
	base := strings.TrimSpace(title)
	if base == "" {
		base = fmt.Sprintf("%s x %s", axisAOption, axisBOption)
	}

	// the ceiling counts characters, not bytes
	if utf8.RuneCountInString(base) > maxTitleLength {
		return string([]rune(base)[:maxTitleLength-3]) + "..."
	}

	return base
}
