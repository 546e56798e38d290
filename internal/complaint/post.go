package complaint

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

const (
	// Handle is the account the suggested posts are written as.
	Handle = "@SnapBackAI"

	// Mock engagement shown under the thread.
	Engagement = "🔁 Retweets: 245 | ❤️ Likes: 1.2K"
)

const threadTemplate = `
	SnapBack AI 🚀 (%s)
	1h ago

	Complaint: %s

	✅ Product Condition: %s
	⏳ Expiry Status: %s
	📦 Packaging Integrity: %s
	⚠️ Food Safety Concerns: %s
	🔴 Severity: %s
	🟢 Verification Status: %s

	---
	%s
`

// ThreadPost formats the structured checklist as a reply in a social-media
// thread.
func ThreadPost(text string, f Fields) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(threadTemplate)),
		Handle,
		text,
		f.ProductCondition,
		f.ExpiryStatus,
		f.PackagingIntegrity,
		f.FoodSafetyConcerns,
		f.SeverityLabel(),
		f.VerificationStatus,
		Engagement,
	)
}

// TweetPost builds the short tweet used in raw mode. The brand handle is
// taken from the last word of the complaint, rotated at rune 4
// ("CareTeam" becomes "TeamCare").
func TweetPost(text string) string {
	return fmt.Sprintf("@%s %s - Verified by %s\n#QuickCommerce #ConsumerRights",
		brandHandle(text), text, Handle)
}

func brandHandle(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	last := []rune(words[len(words)-1])
	if len(last) <= 4 {
		return string(last)
	}
	return string(last[4:]) + string(last[:4])
}

// SuggestedPost picks the post template matching the outcome. Failed
// outcomes have no post.
func SuggestedPost(text string, o Outcome) string {
	switch o.Kind {
	case OutcomeStructured:
		return ThreadPost(text, *o.Fields)
	case OutcomeRaw:
		return TweetPost(text)
	default:
		return ""
	}
}
