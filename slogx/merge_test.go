package slogx

import (
	"github.com/stretchr/testify/assert"
	"log/slog"
	"strings"
	"testing"
)

func TestMergeHandlers(t *testing.T) {
	var (
		bufA, bufB, bufC strings.Builder
	)
	log := slog.New(MergeHandlers(
		slog.NewTextHandler(&bufA, &slog.HandlerOptions{}),
		nil,
		slog.NewTextHandler(&bufB, &slog.HandlerOptions{}),
		slog.NewTextHandler(&bufC, &slog.HandlerOptions{}),
	))
	log.With("node", "root").Info("A message", "test", "test")
	a, b, c := bufA.String(), bufB.String(), bufC.String()
	assert.NotEmpty(t, a)
	assert.Contains(t, a, "node=root")
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}

func TestMergeHandlers_Collapse(t *testing.T) {
	var buf strings.Builder
	single := slog.NewTextHandler(&buf, nil)
	assert.Same(t, single, MergeHandlers(nil, single))
	assert.Equal(t, slog.DiscardHandler, MergeHandlers(nil, nil))
}

func TestMergeHandlers_Levels(t *testing.T) {
	var debug, info strings.Builder
	log := slog.New(MergeHandlers(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))
	log.Debug("only debug")
	assert.Contains(t, debug.String(), "only debug")
	assert.Empty(t, info.String())
}
