package critique

import (
	"fmt"
	"strings"
)

// Message is one turn of the conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const systemPrompt = "You are a coding assistant. " +
	"You are detail orientated and precise. " +
	"You have extensive knowledge of all coding languages and packages. " +
	"You will review the documentation for Python functions, methods and classes that I provide. " +
	"The documentation you are helping to write is written for someone with very little coding experience. " +
	"Please provide verbose descriptions and ensure no assumptions are made in the documentation."

const primingReply = "Please provide the code block and its docstring so I can analyze it for you."

// Instructions builds the user instruction describing the review and the
// exact JSON shape expected back.
func Instructions(style Style) string {
	var sb strings.Builder
	sb.WriteString("In the next message, I will provide you with the code for a Python function, method or class. ")
	fmt.Fprintf(&sb, "This will include the docstring, which should be in the %s style.\n\n", style.Display)
	fmt.Fprintf(&sb, "Here is an example of a docstring in the %s style:\n\n%s\n\n", style.Display, style.Example)
	sb.WriteString("Does the docstring describe the functionality provided by the code? ")
	sb.WriteString("Does it exclude any functionality in the description? ")
	sb.WriteString("Would an extended summary help the user understand the code better? Be verbose. ")
	sb.WriteString("Is there adequate description of types and defaults? ")
	sb.WriteString("Or does it document functionality that does not exist in the code?\n\n")
	sb.WriteString("Do not provide errors or warnings about imports.\n\n")
	sb.WriteString("Provide your response as JSON with exactly the following format (do not return any additional text):\n")
	sb.WriteString("{\n")
	sb.WriteString(`    "function": "Return the name of the function, method or class.",` + "\n")
	sb.WriteString(`    "error": "Describe any errors in the docstring. For example, if any functionality is in the code but not in the docs. Or if any functionality is described in the docs, but does not exist in the code. If you find no errors, return an empty string.",` + "\n")
	fmt.Fprintf(&sb, `    "warning": "Describe any concerns, but not errors in the documentation. For example, possible typos, grammar errors, if the docstring does not follow the %s convention. If you find no warnings, return an empty string.",`+"\n", style.Display)
	sb.WriteString(`    "solution": "If there were any errors or warnings, place the corrected code block here, including the improved docstring. Do not modify the code itself. If there is nothing to fix, return an empty string."` + "\n")
	sb.WriteString("}")
	return sb.String()
}

// Conversation returns the four-turn conversation for one code block:
// system persona, instructions, a priming acknowledgment, then the code.
func Conversation(block string, style Style) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: Instructions(style)},
		{Role: RoleAssistant, Content: primingReply},
		{Role: RoleUser, Content: block},
	}
}
