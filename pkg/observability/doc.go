/*
Package observability provides tools for monitoring the triage engine.

It turns the executor's lifecycle hooks into Prometheus metrics and structured audit logs.
Both are plain domain.LifecycleHooks values and can be chained.
*/
package observability
