/*
Package ports defines the driven and driving ports (interfaces) of the triage engine.

These interfaces decouple the workflow core from external implementations: the language
model behind every classification, the source of prompt templates, and the surfaces
(HTTP, MCP, CLI) that submit queries.

# Key Interfaces

  - Completer: turns a prompt into completion text (e.g., OpenAI compatible APIs or a stub).
  - PromptLoader: supplies prompt template overrides (e.g., a Loam directory).
  - Triager: runs a query through the compiled graph; used by the adapters.
*/
package ports
