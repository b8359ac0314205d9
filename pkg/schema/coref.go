package schema

// CorefResponse is the structured output requested from a language model
// acting as a coreference model.
type CorefResponse struct {
	Clusters []CorefCluster `json:"clusters" jsonschema_description:"Groups of mentions that refer to the same entity, in order of first appearance"`
}

type CorefCluster struct {
	Entity   string    `json:"entity" jsonschema_description:"Short label for the entity the mentions refer to"`
	Mentions []Mention `json:"mentions" jsonschema_description:"Every mention of the entity in story order, including names, noun phrases and pronouns"`
}

type Mention struct {
	Text       string `json:"text" jsonschema_description:"Exact text of the mention as it appears in the story, without surrounding punctuation"`
	Occurrence int    `json:"occurrence" jsonschema_description:"1-based index of this exact text among its whole-word occurrences in the story"`
}
