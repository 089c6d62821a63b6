package loam

// PromptMetadata is the front matter of a prompt document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type PromptMetadata struct {
	// Node is the id of the node the template belongs to. Defaults to the file name.
	Node        string `json:"node" mapstructure:"node"`
	Description string `json:"description" mapstructure:"description"`
	// Disabled documents are ignored, leaving the built-in prompt in place.
	Disabled bool `json:"disabled" mapstructure:"disabled"`
}
