package complaint

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decode turns the model's answer into an Outcome. It never fails: raw mode
// passes the answer through untouched, structured mode yields Failed when the
// answer is not a JSON object.
func Decode(mode Mode, answer string) Outcome {
	if mode == ModeRaw {
		return Raw(answer)
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(stripCodeFence(answer)), &obj); err != nil {
		return Failed(fmt.Sprintf("failed to parse response JSON: %v", err))
	}
	if obj == nil {
		return Failed("response JSON is not an object")
	}

	return Structured(Fields{
		ProductCondition:   field(obj, "product_condition"),
		ExpiryStatus:       field(obj, "expiry_status"),
		PackagingIntegrity: field(obj, "packaging_integrity"),
		FoodSafetyConcerns: field(obj, "food_safety_concerns"),
		Severity:           field(obj, "severity"),
		VerificationStatus: field(obj, "verification_status"),
	})
}

// field returns obj[key] as text, or NotAvailable when the key is missing or
// null. Non-string scalars keep their JSON spelling.
func field(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return NotAvailable
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return NotAvailable
	}
	return string(b)
}

// stripCodeFence removes a surrounding markdown code block, which vision
// models often add around JSON.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
