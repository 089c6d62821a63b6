/*
Package dsl provides the builder used to assemble and compile triage workflow graphs.

Nodes are registered first, then linked with unconditional or conditional edges. Every
mistake is recorded rather than panicking, and Compile reports all of them at once as a
domain.ConfigurationError. A compiled graph is immutable and can be shared by any
number of concurrent runs.

Example usage:

	g, err := dsl.New().
		AddNode("categorize", categorize, dsl.Writes(domain.FieldCategory)).
		AddNode("answer", answer).
		AddNode("escalate", escalate).
		AddConditionalEdge("categorize", route, map[string]string{
			"answer":   "answer",
			"escalate": "escalate",
		}, dsl.WithDefault("answer")).
		AddEdge("answer", domain.End).
		AddEdge("escalate", domain.End).
		SetEntry("categorize").
		Compile()
*/
package dsl
