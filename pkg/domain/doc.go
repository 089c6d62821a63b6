/*
Package domain contains the core domain models of the triage engine.

It defines the fundamental entities of the workflow graph: the State record threaded
through a run, the Nodes that transform it, the Edges and ConditionalEdges that link
them and the compiled, immutable Graph. This package is kept pure and free of I/O,
following the same hexagonal split as the rest of the module.

# Key Entities

  - State: the typed record of a run (query, category, sentiment, response).
  - Update: a partial State returned by a node; merged with field checks.
  - Node: a named transform from State to Update.
  - Edge / ConditionalEdge: unconditional successor, or a Router plus a label mapping.
  - Graph: the compiled topology with its entry node and the End sentinel.
  - Result: the outcome of one run (final State and visited path).
*/
package domain
