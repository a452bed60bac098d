// Package record implements the fixed-width binary codec for one logged
// measurement. Partial records are a store concern; the codec itself is total
// over full-width inputs.
package record
