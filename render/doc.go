// Package render draws the spinning cube and pyramid through the hal
// interfaces. It owns the shader program, the vertex buffers and the frame
// loop; window and context lifetimes belong to the hal drivers.
package render
