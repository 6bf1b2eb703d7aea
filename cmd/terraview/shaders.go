package main

import (
	"math"

	"terramesh/internal/render"
	"terramesh/internal/terrain"
)

func buildMesh(c *terrain.Chunk) *render.Mesh {
	return render.BuildChunkMesh(c)
}

func cos64(a float64) float64 { return math.Cos(a) }
func sin64(a float64) float64 { return math.Sin(a) }

const vertexShaderSrc = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 projection;
uniform mat4 view;

out vec3 fragNormal;
out vec3 fragPos;

void main() {
    fragNormal = aNormal;
    fragPos = aPos;
    gl_Position = projection * view * vec4(aPos, 1.0);
}
`

const fragmentShaderSrc = `
#version 410 core
in vec3 fragNormal;
in vec3 fragPos;

uniform vec3 lightDir;
uniform vec3 playerPos;

out vec4 color;

void main() {
    vec3 n = normalize(fragNormal);
    float diffuse = max(dot(n, normalize(lightDir)), 0.0);
    // walkable-ish faces green, steep faces grey
    float upness = clamp(n.z, 0.0, 1.0);
    vec3 base = mix(vec3(0.45, 0.42, 0.40), vec3(0.30, 0.62, 0.25), smoothstep(0.6, 0.8, upness));
    // highlight the player's cell
    float d = length(fragPos.xy - playerPos.xy);
    if (d < 0.5 && abs(fragPos.z - playerPos.z) < 1.0) {
        base = mix(base, vec3(0.95, 0.85, 0.1), 0.6);
    }
    color = vec4(base * (0.35 + 0.65 * diffuse), 1.0);
}
`
