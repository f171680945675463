package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/anchorage/pkg/entities"
	"github.com/cuemby/anchorage/pkg/output"
)

func TestStopTask_NotRunningReportsDown(t *testing.T) {
	container := newTestContainer(t)
	engine := &fakeEngine{
		inspect: func(ctx context.Context, id string) (entities.Status, error) {
			return entities.Status{Present: false}, nil
		},
	}
	sink := output.NewRecording()

	NewStopTask(New(container, engine, sink, nil)).Run(context.Background())

	assert.Equal(t, 0, engine.stopCalls)
	assert.Contains(t, sink.Last(), "down")
}

func TestStopTask_StopsRunningContainer(t *testing.T) {
	container := newTestContainer(t)
	first := true
	engine := &fakeEngine{
		inspect: func(ctx context.Context, id string) (entities.Status, error) {
			if first {
				first = false
				return entities.Status{Present: true, Running: true, ID: "abc1234"}, nil
			}
			return entities.Status{Present: false}, nil
		},
	}
	sink := output.NewRecording()

	NewStopTask(New(container, engine, sink, nil)).Run(context.Background())

	assert.Equal(t, 1, engine.stopCalls)
	assert.Contains(t, sink.Last(), "stopped")
}

func TestStopTask_StopFailureIsNonFatal(t *testing.T) {
	container := newTestContainer(t)
	engine := &fakeEngine{
		inspect: func(ctx context.Context, id string) (entities.Status, error) {
			return entities.Status{Present: true, Running: true, ID: "abc1234"}, nil
		},
		stopErr: errors.New("timed out"),
	}
	sink := output.NewRecording()

	NewStopTask(New(container, engine, sink, nil)).Run(context.Background())

	assert.Contains(t, sink.Last(), "failed")
}
