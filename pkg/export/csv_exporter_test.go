package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetAddRowMatchesHeadersPositionally(t *testing.T) {
	dataset := NewDataset("payment_id", "student", "amount")
	dataset.AddRow("p1", "Nora Webster", "1500.00")
	dataset.AddRow("p2", "Omar Little")

	content, err := NewCSVExporter().Render(dataset)
	require.NoError(t, err)
	assert.Equal(t, "payment_id,student,amount\np1,Nora Webster,1500.00\np2,Omar Little,\n", string(content))
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	dataset := NewDataset("course", "occupancy")
	dataset.AddRow("Databases", "67.50")

	content, err := NewPDFExporter().Render(dataset, "pending_payments")
	require.NoError(t, err)
	assert.True(t, len(content) > 4)
	assert.Equal(t, "%PDF", string(content[:4]))
}
