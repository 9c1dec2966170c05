// Package windowing computes which items of a large scrollable collection
// need to be rendered.
//
// A Controller holds one session: the item count, how item sizes are known
// (fixed, a percentage of the viewport, a per-index callback, or measured
// from rendered content), the viewport size and the scroll offset. From
// those it resolves the Range of indices to render, the total extent for a
// scroll track and the offset that brings an index into view.
//
// Measured sessions learn sizes from a SizeObserver. When items above the
// viewport turn out larger or smaller than estimated the Controller moves
// the scroll offset by the same amount so the visible rows stay put.
//
// Rendering is left to the host. The list package is a Bubble Tea host.
package windowing
