package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kj114022/abyss/internal/events"
)

func TestSend_NilSinkIsNoOp(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		events.Send(nil, events.Event{Kind: events.StartScanning})
	})
}

func TestSend_DeliversToChannel(t *testing.T) {
	t.Parallel()

	ch := make(chan events.Event, 1)

	events.Send(ch, events.Event{Kind: events.FilesFound, Count: 3})

	received := <-ch

	assert.Equal(t, events.FilesFound, received.Kind)
	assert.Equal(t, 3, received.Count)
}

func TestSend_CompleteCarriesSummary(t *testing.T) {
	t.Parallel()

	ch := make(chan events.Event, 1)

	summary := events.Summary{FilesAdmitted: 2, FilesDropped: 1, TotalTokens: 500, OutputPaths: []string{"abyss.xml"}}
	events.Send(ch, events.Event{Kind: events.Complete, Summary: summary})

	received := <-ch

	assert.Equal(t, summary, received.Summary)
}
