package openai

import (
	"fmt"
)

const classifySystemPrompt = `You are a food-ingredient validator for a Romanian grocery product database. Return ONLY valid JSON with this schema:
{
  "is_ingredient": boolean,
  "reason": string (required when is_ingredient is false: "additive" for role-only additive names, "not specific" for categories and finished products),
  "name": string (canonical English name, lowercase),
  "ro_name": string (Romanian name, lowercase),
  "description": string (one short sentence, English),
  "ro_description": string (one short sentence, Romanian),
  "risk_level": one of "free", "low", "moderate", "high", or null when unknown,
  "nova_score": integer 1-4 per the NOVA processing classification, or null when unknown,
  "confidence": number between 0 and 1
}
Accept only terms that could appear verbatim on a label as a single specific substance.
Reject generic categories (e.g. "condiments"), finished products (e.g. "biscuits"),
role-only additive names (e.g. "emulsifier", "preservative", bare E-number classes)
and compound salts or extracts named only by function. Do not guess: use null for
risk_level and nova_score when unsure.`

func buildClassifyUserPrompt(candidate, productContext, lang string) string {
	prompt := fmt.Sprintf("Candidate (language %s): %s\n", lang, candidate)
	if productContext != "" {
		prompt += fmt.Sprintf("Product context: %s\n", productContext)
	}
	return prompt
}

const deriveSystemPrompt = `You extract ingredient lists from grocery product text (Romanian or English). Return ONLY a JSON array of lowercase ingredient name strings, most specific form, no percentages, no E-number codes alone, no packaging or process phrases. Maximum 10 entries. If the text names no real ingredients, return [].`

func buildDeriveUserPrompt(text, lang string) string {
	return fmt.Sprintf("Language: %s\nText: %s\n", lang, text)
}
