package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tolldesk/access"
	"tolldesk/config"
	"tolldesk/session"
)

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestOpenSourceMemory(t *testing.T) {
	source, err := openSource(context.Background(), config.DataConfig{Backend: config.BackendMemory}, time.UTC)
	require.NoError(t, err)
	defer source.Close()

	records, err := source.TollRecords(context.Background(), access.Scope{Level: access.LevelAll})
	require.NoError(t, err)
	assert.NotEmpty(t, records)

	_, err = openSource(context.Background(), config.DataConfig{Backend: "mysql"}, time.UTC)
	assert.Error(t, err)
}

func TestOpenKVWithoutRedis(t *testing.T) {
	kv, closeKV, err := openKV(context.Background(), config.SessionConfig{})
	require.NoError(t, err)
	defer closeKV()
	assert.IsType(t, &session.MemoryKV{}, kv)
}
