package shader

import (
	"fmt"
	"strings"

	"github.com/Faultbox/scenecore/internal/engine/lighting"
	"github.com/Faultbox/scenecore/internal/engine/material"
)

// Texture units of the sampled channels.
const (
	UnitDiffuse int32 = iota
	UnitSpecular
	UnitEmission
	UnitTransparent
)

// SampledChannels lists the channels programs read textures from, indexed
// by texture unit.
var SampledChannels = [...]material.Channel{
	UnitDiffuse:     material.Diffuse,
	UnitSpecular:    material.Specular,
	UnitEmission:    material.Emission,
	UnitTransparent: material.Transparent,
}

var mapDefines = [...]string{
	UnitDiffuse:     "HAS_DIFFUSE_MAP",
	UnitSpecular:    "HAS_SPECULAR_MAP",
	UnitEmission:    "HAS_EMISSION_MAP",
	UnitTransparent: "HAS_TRANSPARENT_MAP",
}

// Defines returns the preprocessor block for key.
func Defines(key material.ShaderKey) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#define MAX_LIGHTS %d\n", lighting.MaxLights)
	fmt.Fprintf(&b, "#define LIGHTING_MODEL %d\n", key.LightingModel())
	if key.PerPixel() {
		b.WriteString("#define PER_PIXEL\n")
	}
	if key.RGBZero() {
		b.WriteString("#define RGB_ZERO\n")
	}
	for unit, ch := range SampledChannels {
		if key.Textured(ch) {
			fmt.Fprintf(&b, "#define %s\n", mapDefines[unit])
		}
	}
	return b.String()
}

// Source returns the vertex and fragment source for key.
func Source(key material.ShaderKey) (vertex, fragment string) {
	header := "#version 410 core\n" + Defines(key)
	return header + vertexBody, header + fragmentBody
}

const lightingFunc = `
uniform int uLightCount;
uniform int uLightKind[MAX_LIGHTS];
uniform vec3 uLightPos[MAX_LIGHTS];
uniform vec3 uLightDir[MAX_LIGHTS];
uniform vec3 uLightColor[MAX_LIGHTS];
uniform float uLightAtten[MAX_LIGHTS];
uniform float uLightSpotCos[MAX_LIGHTS];
uniform vec3 uAmbient;
uniform vec3 uEye;
uniform float uShininess;

void computeLighting(vec3 pos, vec3 n, out vec3 diffuse, out vec3 specular) {
	specular = vec3(0.0);
#if LIGHTING_MODEL == 3
	diffuse = vec3(1.0);
#else
	diffuse = uAmbient;
	vec3 v = normalize(uEye - pos);
	for (int i = 0; i < uLightCount; i++) {
		vec3 l;
		float att = 1.0;
		if (uLightKind[i] == 0) {
			l = -uLightDir[i];
		} else {
			vec3 d = uLightPos[i] - pos;
			float dist = length(d);
			l = d / max(dist, 1e-4);
			if (uLightAtten[i] > 0.0) {
				att = clamp(1.0 - dist / uLightAtten[i], 0.0, 1.0);
			}
			if (uLightKind[i] == 2 && dot(-l, uLightDir[i]) < uLightSpotCos[i]) {
				att = 0.0;
			}
		}
		float ndl = max(dot(n, l), 0.0);
		diffuse += uLightColor[i] * ndl * att;
		float lit = ndl > 0.0 ? att : 0.0;
#if LIGHTING_MODEL == 0
		specular += uLightColor[i] * pow(max(dot(reflect(-l, n), v), 0.0), uShininess) * lit;
#elif LIGHTING_MODEL == 1
		specular += uLightColor[i] * pow(max(dot(n, normalize(l + v)), 0.0), uShininess) * lit;
#endif
	}
#endif
}
`

const vertexBody = `
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUV;
#ifndef PER_PIXEL
out vec3 vLight;
out vec3 vHighlight;
` + lightingFunc + `
#endif

void main() {
	vec4 world = uModel * vec4(aPosition, 1.0);
	vWorldPos = world.xyz;
	vNormal = normalize(mat3(uModel) * aNormal);
	vUV = aUV;
#ifndef PER_PIXEL
	computeLighting(vWorldPos, vNormal, vLight, vHighlight);
#endif
	gl_Position = uProjection * uView * world;
}
`

const fragmentBody = `
in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;
#ifndef PER_PIXEL
in vec3 vLight;
in vec3 vHighlight;
#else
` + lightingFunc + `
#endif

uniform vec4 uDiffuse;
uniform vec3 uSpecularColor;
uniform vec3 uEmission;
uniform float uTransparency;
uniform sampler2D uDiffuseMap;
uniform sampler2D uSpecularMap;
uniform sampler2D uEmissionMap;
uniform sampler2D uTransparentMap;

out vec4 FragColor;

void main() {
	vec4 base = uDiffuse;
#ifdef HAS_DIFFUSE_MAP
	base *= texture(uDiffuseMap, vUV);
#endif
	vec3 spec = uSpecularColor;
#ifdef HAS_SPECULAR_MAP
	spec *= texture(uSpecularMap, vUV).rgb;
#endif

	vec3 light;
	vec3 highlight;
#ifdef PER_PIXEL
	computeLighting(vWorldPos, normalize(vNormal), light, highlight);
#else
	light = vLight;
	highlight = vHighlight;
#endif

	vec3 color = base.rgb * light + spec * highlight + uEmission;
#ifdef HAS_EMISSION_MAP
	color += texture(uEmissionMap, vUV).rgb;
#endif

	float alpha = base.a * uTransparency;
#ifdef HAS_TRANSPARENT_MAP
	vec4 t = texture(uTransparentMap, vUV);
#ifdef RGB_ZERO
	alpha *= 1.0 - dot(t.rgb, vec3(0.2126, 0.7152, 0.0722));
#else
	alpha *= t.a;
#endif
#endif
	FragColor = vec4(color, alpha);
}
`
