package services

import (
	"fmt"
	"strings"

	"rulesbot/models"
)

const SystemInstruction = "You are an AI assistant specialised in board games. " +
	"You answer questions precisely, relying strictly on the rules provided."

const NoRulesSentinel = "NOTE: No specific rules were provided for this game."

// BuildGameContext renders the rule text of game into the block given to the
// completion service and stored alongside each answer.
func BuildGameContext(game *models.Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "GAME: %s\n", game.Name)
	fmt.Fprintf(&b, "DESCRIPTION: %s\n\n", game.Description)

	official := strings.TrimSpace(game.OfficialRules)
	custom := strings.TrimSpace(game.CustomRules)
	if official != "" {
		fmt.Fprintf(&b, "OFFICIAL RULES:\n%s\n\n", official)
	}
	if custom != "" {
		fmt.Fprintf(&b, "CUSTOM RULES / VARIANTS:\n%s\n\n", custom)
	}
	if official == "" && custom == "" {
		b.WriteString(NoRulesSentinel + "\n")
	}
	return b.String()
}

// BuildQuestionPrompt is the user message: the context block followed by the
// question and answering instructions.
func BuildQuestionPrompt(game *models.Game, gameContext, question string) string {
	return fmt.Sprintf(`You are a board game expert specialising in "%s". Answer the following question precisely, relying ONLY on the rules provided.

GAME CONTEXT:
%s
QUESTION: %s

INSTRUCTIONS:
- Answer using only the rules given above
- If the information is not in the rules, say clearly "This is not specified in the rules provided"
- Be precise, concise and educational
- Use paragraphs if needed
- Never invent a rule that is not mentioned`, game.Name, gameContext, question)
}
