package api

import "github.com/sashabaranov/go-openai"

// FragmentKind tells which delta field a stream chunk carried.
type FragmentKind int

const (
	// FragmentEmpty marks a chunk with no usable text (role-only deltas, usage chunks, no choices).
	FragmentEmpty FragmentKind = iota
	// FragmentContent is regular assistant output.
	FragmentContent
	// FragmentReasoning is output from the reasoning_content field some backends stream.
	FragmentReasoning
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentContent:
		return "content"
	case FragmentReasoning:
		return "reasoning_content"
	default:
		return "empty"
	}
}

// Fragment is the text observed in a single stream chunk.
type Fragment struct {
	Kind FragmentKind
	Text string
}

// IsEmpty reports whether the chunk yielded nothing to measure.
func (f Fragment) IsEmpty() bool {
	return f.Kind == FragmentEmpty
}

// FragmentFromChunk extracts the observed fragment of a chunk. Content takes
// precedence over reasoning content; only the first choice is inspected.
func FragmentFromChunk(chunk openai.ChatCompletionStreamResponse) Fragment {
	if len(chunk.Choices) == 0 {
		return Fragment{Kind: FragmentEmpty}
	}
	delta := chunk.Choices[0].Delta
	if delta.Content != "" {
		return Fragment{Kind: FragmentContent, Text: delta.Content}
	}
	if delta.ReasoningContent != "" {
		return Fragment{Kind: FragmentReasoning, Text: delta.ReasoningContent}
	}
	return Fragment{Kind: FragmentEmpty}
}
