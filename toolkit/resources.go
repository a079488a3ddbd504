package toolkit

import (
	"fmt"
	"strings"
)

// DefaultMediaTypes is the media mix used when the caller does not specify
// one.
var DefaultMediaTypes = []string{"article", "video", "interactive", "book"}

// Resource is one recommended learning resource.
type Resource struct {
	Title       string `json:"title"`
	Topic       string `json:"topic"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// RecommendResources builds template resource recommendations per topic,
// capped at maxPerTopic each. Results are deterministic and ordered by the
// input topic order.
func RecommendResources(topics []string, mediaTypes []string, maxPerTopic int) []Resource {
	if len(topics) == 0 {
		return nil
	}
	if len(mediaTypes) == 0 {
		mediaTypes = DefaultMediaTypes
	}
	if maxPerTopic <= 0 {
		maxPerTopic = 3
	}

	var resources []Resource
	for _, topic := range topics {
		count := 0
		for _, mediaType := range mediaTypes {
			if count >= maxPerTopic {
				break
			}
			slug := strings.ReplaceAll(strings.ToLower(topic), " ", "-")
			resources = append(resources, Resource{
				Title:       fmt.Sprintf("%s%s about %s", strings.ToUpper(mediaType[:1]), mediaType[1:], topic),
				Topic:       topic,
				Type:        mediaType,
				URL:         fmt.Sprintf("https://example.edu/resources/%s/%s", mediaType, slug),
				Description: fmt.Sprintf("A %s resource explaining %s concepts", mediaType, topic),
			})
			count++
		}
	}
	return resources
}
