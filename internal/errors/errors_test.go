package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	got []*EnhancedError
}

func (r *recordingReporter) ReportError(ee *EnhancedError) { r.got = append(r.got, ee) }
func (r *recordingReporter) IsEnabled() bool               { return true }

func TestFastPathNoTelemetry(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestReporterReceivesDetectedCategory(t *testing.T) {
	r := &recordingReporter{}
	SetTelemetryReporter(r)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := New(fmt.Errorf("failed to parse catalog row")).Component("catalog").Build()

	require.Len(t, r.got, 1)
	assert.Same(t, ee, r.got[0])
	assert.Equal(t, CategoryFileParsing, ee.Category)
}

func TestEmptyInputMatchesSentinel(t *testing.T) {
	t.Parallel()

	err := EmptyInput("analysis", "first_image")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.True(t, IsCategory(err, CategoryEmptyInput))
	assert.Equal(t, "analysis", err.GetComponent())

	wrapped := fmt.Errorf("seasonal section: %w", err)
	assert.ErrorIs(t, wrapped, ErrEmptyInput)
	assert.False(t, IsNotFound(wrapped))
}

func TestBuilderContext(t *testing.T) {
	t.Parallel()

	ee := Newf("open %s", "catalog.csv").
		Category(CategoryFileIO).
		FileContext("/data/catalog.csv").
		Context("rows", 12).
		Build()

	ctx := ee.GetContext()
	assert.Equal(t, "absolute-path", ctx["file_type"])
	assert.Equal(t, "csv", ctx["file_extension"])
	assert.Equal(t, 12, ctx["rows"])

	ctx["rows"] = 0
	assert.Equal(t, 12, ee.GetContext()["rows"], "context is returned as a copy")
}

func TestIsByCategory(t *testing.T) {
	t.Parallel()

	a := New(NewStd("a")).Category(CategoryDatabase).Build()
	b := New(NewStd("b")).Category(CategoryDatabase).Build()
	c := New(NewStd("c")).Category(CategoryExport).Build()

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, c)
}

func TestScrubMessageForPrivacy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, in, notContains string
	}{
		{"query string", "GET https://tiles.example.com/a?key=secret123", "secret123"},
		{"password", "mysql password=hunter2 rejected", "hunter2"},
		{"home dir", "open /home/alice/catalog.csv", "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.NotContains(t, scrubMessageForPrivacy(tt.in), tt.notContains)
		})
	}
}

func TestGenerateErrorTitle(t *testing.T) {
	t.Parallel()

	ee := New(NewStd("boom")).
		Component("report").
		Category(CategoryReport).
		Context("operation", "produce_section").
		Build()

	assert.Equal(t, "Report Report Error Produce Section", generateErrorTitle(ee))
}
