package agent

// Tool represents a tool the model can invoke during conversation.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Handler     func(args map[string]any) (string, error)
}

// Profile bundles everything that makes one assistant distinct from another:
// its persona instructions, preferred voice, and tool set.
type Profile struct {
	// Name identifies the agent on the dashboard and in logs.
	Name string

	// Instructions is the system prompt handed to the voice pipeline.
	Instructions string

	// Voice is the default TTS voice for this persona.
	// Config.TTSVoice overrides it when set.
	Voice string

	// Tools are registered with the pipeline before it starts.
	Tools []Tool

	// Detail reports agent-specific state for the dashboard
	// (the current order, the latest check-in). May be nil.
	Detail func() map[string]any
}

// FindTool returns the named tool, or nil if the profile doesn't have it.
func (p *Profile) FindTool(name string) *Tool {
	for i := range p.Tools {
		if p.Tools[i].Name == name {
			return &p.Tools[i]
		}
	}
	return nil
}
