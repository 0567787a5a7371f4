package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "device_instance", ToSnakeCase("DeviceInstance"))
	assert.Equal(t, "type_field", ToSnakeCase("Type"))
}

func TestToPascalCase(t *testing.T) {
	assert.Equal(t, "EngineRoom", ToPascalCase("Engine Room"))
	assert.Equal(t, "Percent5", ToPascalCase("%5"))
	assert.Equal(t, "InfToLimit", ToPascalCase("<Limit"))
	assert.Equal(t, "SupToLimit", ToPascalCase(">Limit"))
	assert.Equal(t, "Val4Stroke", ToPascalCase("4 Stroke"))
	assert.Equal(t, "Remove10", ToPascalCase("-10"))
	assert.Equal(t, "Add10", ToPascalCase("+10"))
}

func TestDisambiguateVariants(t *testing.T) {
	names := []string{"Reserved", "Reserved", "Active"}
	values := []uint32{0, 1, 2}
	out := DisambiguateVariants(names, values)
	assert.Equal(t, []string{"Reserved", "Reserved1", "Active"}, out)
}
