// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SpriteVertexShader places one instanced unit quad per sprite.
//
//go:embed sprite.vert
var SpriteVertexShader string

// SpriteFragmentShader samples the sprite texture and applies instance alpha.
//
//go:embed sprite.frag
var SpriteFragmentShader string
