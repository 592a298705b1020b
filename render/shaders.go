package render

const vertexShaderSource = `
#version 330 core

layout(location = 0) in vec3 modelSpace;
layout(location = 1) in vec3 vertexColour;

out vec3 fragmentColour;

uniform mat4 mvp;

void main() {
    gl_Position = mvp * vec4(modelSpace, 1);
    fragmentColour = vertexColour;
}
`

const fragmentShaderSource = `
#version 330 core

in vec3 fragmentColour;
out vec3 colour;

void main() {
    colour = fragmentColour;
}
`

// Attribute slots bound by the vertex shader's layout qualifiers.
const (
	positionSlot = 0
	colourSlot   = 1
)

const mvpUniform = "mvp"
