// Package shaders embeds the WGSL sources for the particle kernel and the
// point render pass. Tunable constants are prepended by the host before
// module creation; see the header comment in each file.
package shaders

import (
	_ "embed"
)

//go:embed update.wgsl
var UpdateWGSL string

//go:embed render.wgsl
var RenderWGSL string
