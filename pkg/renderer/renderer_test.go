package renderer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/vector"
)

func TestColumnRows(t *testing.T) {
	cols := []*models.Column{
		{ID: "RPM", Alias: "nmot_w", Unit: "RPM", Data: vector.Vector{3000, 6500.5, 2500}},
		models.NewColumn("Calc WHP", "HP", vector.Vector{}),
	}
	rows := ColumnRows(cols)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"RPM", "nmot_w", "RPM", "", "2500.00", "6500.50"}, rows[1])
	assert.Equal(t, []string{"Calc WHP", "", "HP", "Calc", "-", "-"}, rows[2])
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "-", formatValue(math.NaN()))
	assert.Equal(t, "1.23", formatValue(1.234))
}

func TestGearName(t *testing.T) {
	assert.Equal(t, "any", gearName(-1))
	assert.Equal(t, "3", gearName(3))
}
