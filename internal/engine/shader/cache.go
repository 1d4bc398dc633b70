package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/scenecore/internal/engine/material"
	"github.com/Faultbox/scenecore/internal/logger"
)

// Program is a linked program and its uniform locations.
type Program struct {
	ID  uint32
	Key material.ShaderKey

	Model      int32
	View       int32
	Projection int32
	Eye        int32

	LightCount   int32
	LightKind    int32
	LightPos     int32
	LightDir     int32
	LightColor   int32
	LightAtten   int32
	LightSpotCos int32
	Ambient      int32

	Diffuse      int32
	Specular     int32
	Emission     int32
	Shininess    int32
	Transparency int32

	// Maps holds sampler locations indexed by texture unit.
	Maps [len(SampledChannels)]int32
}

func newProgram(id uint32, key material.ShaderKey) *Program {
	p := &Program{
		ID:           id,
		Key:          key,
		Model:        uniform(id, "uModel"),
		View:         uniform(id, "uView"),
		Projection:   uniform(id, "uProjection"),
		Eye:          uniform(id, "uEye"),
		LightCount:   uniform(id, "uLightCount"),
		LightKind:    uniform(id, "uLightKind"),
		LightPos:     uniform(id, "uLightPos"),
		LightDir:     uniform(id, "uLightDir"),
		LightColor:   uniform(id, "uLightColor"),
		LightAtten:   uniform(id, "uLightAtten"),
		LightSpotCos: uniform(id, "uLightSpotCos"),
		Ambient:      uniform(id, "uAmbient"),
		Diffuse:      uniform(id, "uDiffuse"),
		Specular:     uniform(id, "uSpecularColor"),
		Emission:     uniform(id, "uEmission"),
		Shininess:    uniform(id, "uShininess"),
		Transparency: uniform(id, "uTransparency"),
	}
	samplers := [...]string{"uDiffuseMap", "uSpecularMap", "uEmissionMap", "uTransparentMap"}
	for unit, name := range samplers {
		p.Maps[unit] = uniform(id, name)
	}
	return p
}

// Cache compiles programs on first use and keeps them per shader key.
// It must be used on the GL thread.
type Cache struct {
	programs map[material.ShaderKey]*Program
}

// NewCache creates an empty program cache.
func NewCache() *Cache {
	return &Cache{programs: make(map[material.ShaderKey]*Program)}
}

// Get returns the program for key, compiling it if needed.
func (c *Cache) Get(key material.ShaderKey) (*Program, error) {
	if p, ok := c.programs[key]; ok {
		return p, nil
	}
	vs, fs := Source(key)
	id, err := CompileProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("shader key %#x: %w", uint32(key), err)
	}

	p := newProgram(id, key)
	gl.UseProgram(id)
	for unit, loc := range p.Maps {
		if loc >= 0 {
			gl.Uniform1i(loc, int32(unit))
		}
	}
	c.programs[key] = p

	logger.Debug("shader program compiled",
		zap.Uint32("program", id),
		zap.Uint32("key", uint32(key)),
		zap.Stringer("lighting", key.LightingModel()),
	)
	return p, nil
}

// Len returns the number of compiled programs.
func (c *Cache) Len() int {
	return len(c.programs)
}

// Close deletes every program.
func (c *Cache) Close() {
	for key, p := range c.programs {
		gl.DeleteProgram(p.ID)
		delete(c.programs, key)
	}
}
