/*
Package eventnode provides an in-process event node with richer listener semantics than a plain publish/subscribe primitive, and a per-key serialization primitive for asynchronous work.

The interesting parts live in sub-packages:
  - [github.com/saylorsolutions/eventnode/dispatch] is the base publish/subscribe primitive everything else is layered on.
  - [github.com/saylorsolutions/eventnode/node] adds one-shot, conditional, debounced, bubbling and race listeners, plus the keyed atomic queue and the advisory state guard.
  - [github.com/saylorsolutions/eventnode/clock] abstracts timer scheduling so debounce behavior can be tested with simulated time.

The remaining packages are small eXtensions to standard packages that the node is built on, and the package naming maps intuitively to the standard packages they extend.
*/
package eventnode
