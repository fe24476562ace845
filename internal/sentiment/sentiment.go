package sentiment

import (
	"strings"

	"github.com/A-Mayank/Order-FollowUp-System/internal/order"
)

var negativeWords = []string{
	"bad", "late", "angry", "cancel", "refund", "terrible", "worst",
	"disappointed", "not happy", "awful", "never again", "rotten", "smell",
}

var positiveWords = []string{
	"thank", "great", "good", "love", "awesome", "perfect", "excellent",
	"fresh", "tasty", "delicious", "amazing",
}

// Classify maps free text to a sentiment using keyword matching. Negative
// cues win over positive ones so complaints are never missed; anything
// inconclusive is neutral.
func Classify(text string) order.Sentiment {
	lowered := strings.ToLower(text)
	for _, w := range negativeWords {
		if strings.Contains(lowered, w) {
			return order.SentimentNegative
		}
	}
	for _, w := range positiveWords {
		if strings.Contains(lowered, w) {
			return order.SentimentPositive
		}
	}
	return order.SentimentNeutral
}
