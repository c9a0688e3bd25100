package voice

// Tool represents a function that the assistant can invoke during conversation.
// Tools enable the assistant to perform actions like updating an in-progress
// order or recording a wellness check-in.
type Tool struct {
	// Name is the unique identifier for the tool (e.g., "finalize_order").
	Name string `json:"name"`

	// Description explains what the tool does, helping the model decide when to use it.
	Description string `json:"description"`

	// Parameters defines the JSON schema for the tool's arguments.
	// Example:
	//   map[string]any{
	//       "type": "object",
	//       "properties": map[string]any{
	//           "size": map[string]any{
	//               "type": "string",
	//               "enum": []string{"small", "medium", "large"},
	//           },
	//       },
	//       "required": []string{"size"},
	//   }
	Parameters map[string]any `json:"parameters"`

	// Handler is called when the model invokes this tool.
	// It receives the parsed arguments and returns a result string or error.
	// The result is sent back to the model to continue the conversation.
	Handler func(args map[string]any) (string, error) `json:"-"`
}

// ToolCall represents an invocation of a tool by the model.
type ToolCall struct {
	// ID is the unique identifier for this tool call.
	// Used to match results back to the correct call.
	ID string

	// Name is the tool being invoked.
	Name string

	// Arguments contains the parsed arguments from the model.
	Arguments map[string]any
}

// ToolResult represents the result of a tool invocation.
type ToolResult struct {
	// CallID matches the ToolCall.ID this result corresponds to.
	CallID string

	// Result is the string result to send back to the model.
	Result string

	// Error is set if the tool execution failed.
	Error error
}
