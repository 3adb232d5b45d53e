package tunables

import (
	"testing"
	"time"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/assert"
)

func TestRegistryStateRejectsOlderDocument(t *testing.T) {
	// Given
	var s registryState
	newer := &RegistryDocument{
		Version:   semver.MustParse("1.1.0"),
		UpdatedAt: time.Date(2024, 12, 6, 0, 0, 0, 0, time.UTC),
		Flags:     Registry{"WEBGL_PACK": {true, false}},
	}
	older := &RegistryDocument{
		Version:   semver.MustParse("1.0.0"),
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Flags:     Registry{"WEBGL_VERSION": {1, 2}},
	}

	// When
	assert.True(t, s.SetDocument(newer))
	applied := s.SetDocument(older)

	// Then
	assert.False(t, applied)
	assert.True(t, s.Registry().Has("WEBGL_PACK"))
	assert.Equal(t, "1.1.0", s.Version().String())
	assert.Equal(t, newer.UpdatedAt, s.UpdatedAt())
}

func TestRegistryStateSetRegistryKeepsBackendFlags(t *testing.T) {
	var s registryState
	s.SetRegistry(DefaultRegistry(), DefaultBackendFlags())

	s.SetRegistry(Registry{"WEBGL_PACK": {true}}, nil)

	assert.Equal(t, DefaultBackendFlags(), s.BackendFlags())
	assert.Equal(t, []string{"WEBGL_PACK"}, s.Registry().Flags())
	assert.True(t, s.UpdatedAt().IsZero())
}
