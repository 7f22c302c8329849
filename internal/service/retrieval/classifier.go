package retrieval

import "github.com/WebRTC-Projects-Unina/Chatbot-Diritto-Europeo/internal/service/lexical"

// Classify returns the topic most similar to query. ok is false when no
// topic scores above threshold, meaning the whole knowledge base applies.
// On equal scores the earliest topic in the slice wins.
func Classify(query string, topics []string, threshold int) (topic string, ok bool) {
	best := 0
	for _, t := range topics {
		if s := lexical.Similarity(query, t); s > best {
			best, topic = s, t
		}
	}
	if best > threshold {
		return topic, true
	}
	return "", false
}
