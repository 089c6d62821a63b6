// Package support wires the customer-support triage workflow.
//
// The graph classifies a query by category and sentiment, then answers it with a
// category specific prompt or escalates it to a human agent:
//
//	categorize -> analyzeSentiment -> handleTechnical | handleBilling | handleGeneral | escalate -> End
//
// Every call to the language model goes through a ports.Completer, so the workflow
// runs unchanged against a real API or a scripted stub.
package support
