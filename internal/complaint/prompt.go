package complaint

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

const structuredPrompt = `
	Analyze this food-related complaint: "%s". Based on the uploaded image, perform the following checks:

	1. **Product Condition**: Assess the physical state of the food item.
	2. **Expiry Date**: Verify if the product is expired or close to expiration.
	3. **Packaging Integrity**: Check for signs of tampering, leaks, or damage.
	4. **Food Safety Concerns**: Identify potential health hazards.

	Respond in JSON format:
	{
	  "product_condition": "...",
	  "expiry_status": "...",
	  "packaging_integrity": "...",
	  "food_safety_concerns": "...",
	  "severity": "...",
	  "verification_status": "..."
	}
`

const rawPrompt = `
	Analyze this food-related complaint: "%s". Based on the uploaded image, check:

	1. Product condition
	2. Expiry date
	3. Packaging integrity
	4. Food safety concerns
	5. Whether the image supports the complaint

	Respond in plain text with a short paragraph per check.
`

// BuildPrompt embeds the complaint text verbatim in the checklist prompt for
// the given mode.
func BuildPrompt(mode Mode, text string) string {
	tmpl := structuredPrompt
	if mode == ModeRaw {
		tmpl = rawPrompt
	}
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(tmpl)), text)
}
