package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-hse/psychorisk/factory"
	"github.com/aegis-hse/psychorisk/schedule"
)

func TestParse_FullDocument(t *testing.T) {
	f := factory.NewSettingsFactory()

	settings, err := f.Parse(`{
		"company_id": "co-1",
		"periodicity": {
			"high": "semiannual",
			"medium": "annual",
			"low": "none"
		},
		"default": "annual"
	}`)
	require.NoError(t, err)

	assert.Equal(t, "co-1", settings.CompanyID)
	assert.Equal(t, schedule.RecurrenceSemiannual, settings.High)
	assert.Equal(t, schedule.RecurrenceAnnual, settings.Medium)
	assert.Equal(t, schedule.RecurrenceNone, settings.Low)
	assert.Equal(t, schedule.RecurrenceAnnual, settings.Default)
}

func TestParse_PartialDocumentLeavesTiersBlank(t *testing.T) {
	f := factory.NewSettingsFactory()

	settings, err := f.Parse(`{"company_id": "co-1", "periodicity": {"high": "quarterly"}}`)
	require.NoError(t, err)

	assert.Equal(t, schedule.RecurrenceQuarterly, settings.High)
	assert.Empty(t, settings.Medium)
	assert.Empty(t, settings.Default)
}

func TestParse_Rejections(t *testing.T) {
	f := factory.NewSettingsFactory()

	t.Run("bad JSON", func(t *testing.T) {
		_, err := f.Parse(`{`)
		assert.Error(t, err)
	})

	t.Run("missing company_id", func(t *testing.T) {
		_, err := f.Parse(`{"periodicity": {"high": "annual"}}`)
		assert.Error(t, err)
	})

	t.Run("unknown interval", func(t *testing.T) {
		_, err := f.Parse(`{"company_id": "co-1", "periodicity": {"high": "fortnightly"}}`)
		assert.Error(t, err)
	})

	t.Run("unknown tier", func(t *testing.T) {
		_, err := f.Parse(`{"company_id": "co-1", "periodicity": {"critical": "annual"}}`)
		assert.Error(t, err)
	})
}

func TestDefaultSettings_Preset(t *testing.T) {
	settings := factory.DefaultSettings("co-9")
	assert.Equal(t, "co-9", settings.CompanyID)
	assert.Equal(t, schedule.RecurrenceSemiannual, settings.High)
	assert.Equal(t, schedule.RecurrenceAnnual, settings.Medium)
	assert.Equal(t, schedule.RecurrenceAnnual, settings.Low)
	assert.Equal(t, schedule.RecurrenceAnnual, settings.Default)
}

func TestSettingsJSONRoundTrip(t *testing.T) {
	original := factory.DefaultSettings("co-1")

	doc, err := factory.SettingsToJSON(original)
	require.NoError(t, err)

	parsed, err := factory.NewSettingsFactory().Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}
