package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Application History",
		Headers: []string{"Type", "Application ID", "Status"},
		Rows: []map[string]string{
			{"Type": "Learning License", "Application ID": "APP202610161200AB12", "Status": "Processing"},
			{"Type": "Driving License", "Application ID": "APP202610171300CD34"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Type,Application ID,Status\nLearning License,APP202610161200AB12,Processing\nDriving License,APP202610171300CD34,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	exporter.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	out, err := exporter.Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", exporter.ContentType())
}

func TestRenderReceipt(t *testing.T) {
	out, err := RenderReceipt(Receipt{
		PaymentID:   "2f0c7a58-0000-4000-8000-000000000001",
		Reference:   "APP202610161200AB12",
		LicenseType: "learning",
		Amount:      500,
		CardHolder:  "Jane Doe",
		CardLast4:   "4242",
		PaidAt:      time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = RenderReceipt(Receipt{})
	assert.Error(t, err)
}
