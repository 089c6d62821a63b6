/*
Package triage answers customer-support queries by running them through a compiled workflow graph.

A query is classified by category and sentiment with a text-completion collaborator, then
routed to a technical, billing or general response, or escalated to a human agent when the
sentiment is negative. The workflow itself is an immutable graph (see pkg/dsl) executed by a
small state machine, so the same engine serves the CLI, the HTTP server and MCP clients.

# Concept

The collaborator is any ports.Completer: an OpenAI compatible API (pkg/adapters/openai) in
production, a scripted stub (pkg/adapters/memory) in tests. Nothing is global; every Engine
owns its graph and can be used from many goroutines at once.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"
		"os"

		"github.com/aretw0/triage"
		"github.com/aretw0/triage/pkg/adapters/openai"
	)

	func main() {
		llm := openai.New(openai.Config{APIKey: os.Getenv("GROQ_API_KEY")})

		eng, err := triage.New(llm)
		if err != nil {
			log.Fatal(err)
		}

		res, err := eng.Triage(context.Background(), "My app crashes on login")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.State.Category, res.State.Sentiment)
		fmt.Println(res.State.Response)
	}
*/
package triage
