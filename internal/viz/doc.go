// Package viz draws animation frames in the terminal.
//
// A [Plot] projects a scene frame onto a Braille [Canvas], which renders
// with lipgloss colours or rasterizes to a paletted image for GIF output.
// [Player] is the Bubble Tea model that plays a script interactively:
//
//   - Theme selection with 5 built-in color schemes
//   - Stage navigation and single-frame stepping
//   - Live convergence chart drawn with asciigraph
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[ ]   - Previous/next stage
//	← →   - Step one frame
//
// # Recording
//
// G starts capturing every played frame; pressing it again (or quitting)
// writes them to paraviz.gif in the current directory.
package viz
