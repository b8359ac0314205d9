package coref

const corefPrompt = `You are a coreference resolution system for short fictional stories. Group every mention of the same person, animal, object or place into one cluster.

**Rules:**
- A mention is a name, a noun phrase, or a pronoun (he, she, it, they, his, her, its, their, him, them, I, you, we, our, your).
- Copy each mention's text exactly as it appears in the story, with the same capitalization and no surrounding punctuation.
- "occurrence" is the 1-based count of that exact text among whole-word matches in the story, counting from the beginning. The second "She" in the story has occurrence 2.
- Include mentions inside quoted dialogue.
- Only output clusters with at least two mentions.
- Output only the JSON object, with no commentary or markdown.

**Example:**
Story: Maria walked home. She was tired. Her dog barked at her.
{"clusters":[{"entity":"Maria","mentions":[{"text":"Maria","occurrence":1},{"text":"She","occurrence":1},{"text":"Her","occurrence":1},{"text":"her","occurrence":1}]}]}`

const fixJSONPrompt = `The following text was supposed to be a JSON object with a root key "clusters" but it failed to parse. Return only the corrected JSON object, with no commentary or markdown.`
