/*
Package domain contains the core entities of the taxonomy engine: the Node,
the Tree arena that owns all nodes for one industry, and the value types
exchanged with the generation gateway (Record, GenerationRequest).

The Tree is an arena keyed by node id. Parent/child relationships are stored
as id references, never as live pointers, so serialization is trivial and
ownership is unambiguous: the tree owns every node, and discarding a tree
discards its nodes.
*/
package domain
