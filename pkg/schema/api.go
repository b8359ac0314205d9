package schema

import "storyboard/pkg/document"

// StoryRequest is the body accepted by the prompt endpoints.
type StoryRequest struct {
	Text       string `json:"text"`
	Resolution string `json:"resolution,omitempty"`
}

// PromptsResponse lists one prompt per narrative sentence.
type PromptsResponse struct {
	ID      string   `json:"id"`
	Prompts []string `json:"prompts"`
}

// MentionCluster is a cluster rendered for clients.
type MentionCluster struct {
	Head     string           `json:"head,omitempty"`
	Mentions []ClusterMention `json:"mentions"`
}

type ClusterMention struct {
	Text      string        `json:"text"`
	Span      document.Span `json:"span"`
	Rewritten bool          `json:"rewritten"`
}

// WordChange is one word-level edit between normalized and resolved text.
type WordChange struct {
	Op   string `json:"op"`
	Text string `json:"text"`
}

// ResolveResponse exposes every intermediate stage of the pipeline.
type ResolveResponse struct {
	ID         string           `json:"id"`
	Original   string           `json:"original"`
	Normalized string           `json:"normalized"`
	Translated bool             `json:"translated"`
	Resolved   string           `json:"resolved"`
	Cleaned    string           `json:"cleaned"`
	Clusters   []MentionCluster `json:"clusters"`
	Changes    []WordChange     `json:"changes,omitempty"`
	Prompts    []string         `json:"prompts"`
}

// Frame is one storyboard panel ready for an image generator.
type Frame struct {
	Index          int     `json:"index"`
	Caption        string  `json:"caption"`
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	GuidanceScale  float64 `json:"guidance_scale"`
	Steps          int     `json:"steps"`
}

type StoryboardResponse struct {
	ID         string  `json:"id"`
	Resolution string  `json:"resolution"`
	Frames     []Frame `json:"frames"`
}
