// Package augment composes retrieved context and a user query into a
// single prompt for a language model. All functions are pure, without
// side effects or I/O.
package augment

import (
	"fmt"
	"strings"
)

// NoContextMarker is inserted when retrieval returned no documents, so the
// model is explicitly told that nothing was found instead of receiving an
// empty context block.
const NoContextMarker = "No relevant context was found."

// DefaultInstruction tells the model to answer only from the supplied
// context and to say so when it cannot.
const DefaultInstruction = "Answer the question using only the context below. " +
	"If the context does not contain the answer, say that you cannot answer " +
	"based on the provided context."

// Augmenter builds prompts from retrieved context and a query
type Augmenter struct {
	Instruction string
}

// NewAugmenter creates an Augmenter with the default instruction
func NewAugmenter() *Augmenter {
	return &Augmenter{
		Instruction: DefaultInstruction,
	}
}

// Augment merges the retrieved texts and the original query into a single
// prompt. With no retrieved texts it still produces a well-formed prompt
// with the context explicitly marked absent.
func (a *Augmenter) Augment(queryText string, retrievedTexts []string) string {
	var sb strings.Builder

	sb.WriteString(a.Instruction)
	sb.WriteString("\n\nContext:\n")

	if len(retrievedTexts) == 0 {
		sb.WriteString(NoContextMarker)
		sb.WriteString("\n")
	} else {
		for i, text := range retrievedTexts {
			sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, text))
		}
	}

	sb.WriteString("\nQuestion: ")
	sb.WriteString(queryText)

	return sb.String()
}
