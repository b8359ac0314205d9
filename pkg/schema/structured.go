package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var CorefSchema = generateSchema[CorefResponse]()

// CorefResponseFormat requests strict structured output matching CorefResponse.
func CorefResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "coreference_clusters",
		Description: openai.String("Clusters of mentions that refer to the same entity in a story"),
		Schema:      CorefSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}

// WantsJSON reports whether params request a JSON response.
func WantsJSON(params *openai.ChatCompletionNewParams) bool {
	if params == nil {
		return false
	}
	return params.ResponseFormat.OfJSONSchema != nil || params.ResponseFormat.OfJSONObject != nil
}
