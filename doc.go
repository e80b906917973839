/*
Package hashrings implements seven hash-ring algorithms for deterministically
assigning points (requests, cache keys, objects) to a changing set of nodes
(servers, shards) while keeping reassignment small when nodes join or leave:
consistent hashing, multi-probe consistent hashing, rendezvous hashing,
weighted rendezvous hashing, the Cache Array Routing Protocol, Maglev hashing
and jump hashing.

Nodes and points are anything implementing Item, that is io.WriterTo: the
bytes an item writes are its identity, and every ring derives positions and
scores from a 64-bit digest of those bytes. Repeated lookups against an
unchanged ring always return the same node.

The rings differ in their trade-offs. ConsistentRing and MultiProbeRing keep
an ordered structure and answer lookups in logarithmic time. RendezvousRing,
WeightedRendezvousRing and CARPRing score every node per lookup, which is
linear but needs no structure at all. MaglevRing precomputes a fixed-size
lookup table for constant-time lookups at the price of a full rebuild on any
membership change. JumpRing maps keys to plain bucket indices with no node
identities and almost no memory.

ConsistentClient, RendezvousClient and WeightedRendezvousClient wrap their
rings with point tracking: they remember which node every inserted point
resolved to, answer reverse lookups (all points on a node), and after a node
is inserted or removed they re-resolve only the points whose assignment could
have changed.

Rings and clients are plain in-memory structures with no internal locking;
callers that share them across goroutines must serialize access themselves.

References:

	Karger et al., "Consistent Hashing and Random Trees" (STOC '97)
	Appleton, O'Reilly, "Multi-Probe Consistent Hashing" (arXiv:1505.00062)
	Thaler, Ravishankar, "Using Name-Based Mappings to Increase Hit Rates"
	Schindelhauer, Schomaker, "Weighted Distributed Hash Tables" (SPAA '05)
	Eisenbud et al., "Maglev: A Fast and Reliable Software Network Load Balancer" (NSDI '16)
	Lamping, Veach, "A Fast, Minimal Memory, Consistent Hash Algorithm" (arXiv:1406.2294)
	Valloppillil, Ross, "Cache Array Routing Protocol v1.0" (internet draft)
*/
package hashrings
