package vertexformat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLocationString(t *testing.T) {
	assert.Equal(t, "Vertex.Position", Location{Record: "Vertex", Field: "Position"}.String())
	assert.Equal(t, "Vertex.Position:12", Location{Record: "Vertex", Field: "Position", Line: 12}.String())
	assert.Equal(t, "Vertex", Location{Record: "Vertex"}.String())
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityError,
		Location: Location{Record: "V", Field: "F"},
		Message:  "unrecognized component type \"vec3\"",
	}
	assert.Equal(t, `V.F: error: unrecognized component type "vec3"`, d.String())
}

func TestCollector(t *testing.T) {
	c := &Collector{}
	c.Report(SeverityWarning, Location{Record: "V", Field: "A"}, "w")
	c.Report(SeverityError, Location{Record: "V", Field: "B"}, "e")

	assert.Equal(t, 1, c.Warnings())
	assert.Equal(t, 1, c.Errors())

	diags := c.Diagnostics()
	assert.Len(t, diags, 2)
	assert.Equal(t, "w", diags[0].Message)
	assert.Equal(t, "e", diags[1].Message)

	c.Reset()
	assert.Empty(t, c.Diagnostics())
	assert.Equal(t, 0, c.Errors())
}

func TestCollectorConcurrent(t *testing.T) {
	c := &Collector{}
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Report(SeverityWarning, Location{Record: "V"}, "w")
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, c.Warnings())
}

func TestZapSink(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := NewZapSink(zap.New(core))

	sink.Report(SeverityWarning, Location{Record: "V", Field: "A", Line: 3}, "conflicting modifiers")
	sink.Report(SeverityError, Location{Record: "V", Field: "B"}, "unsupported attribute type")

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "conflicting modifiers", entries[0].Message)
	assert.Equal(t, "A", entries[0].ContextMap()["field"])
	assert.Equal(t, int64(3), entries[0].ContextMap()["line"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "V", entries[1].ContextMap()["record"])
}

func TestZapSinkNilLogger(t *testing.T) {
	sink := NewZapSink(nil)
	assert.NotPanics(t, func() {
		sink.Report(SeverityError, Location{Record: "V"}, "e")
	})
}
