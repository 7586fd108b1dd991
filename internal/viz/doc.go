// Package viz maps trajectories onto pixels and styles terminal output.
//
//   - [Viewport] and [Affine]: the fixed world-to-device transform
//   - [Surface]: drawing capability consumed by the tracer
//   - [Canvas]: Braille surface for terminal previews
//   - [Theme]: lipgloss color schemes for summaries and the live view
//
// The transform follows the cairo convention of scale followed by
// translate:
//
//	a, _ := viz.NewAffine(vp, 1200, 1200)
//	px, py := a.Apply(x, y) // = (Sx·(x+Tx), Sy·(y+Ty))
package viz
