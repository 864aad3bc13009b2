package view

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderStatusWritesCode(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	err = engine.RenderStatus(rr, http.StatusBadRequest, "pages/login.html", TemplateData{Title: "Sign in"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "<form")
}

func TestRenderStatusUnknownTemplate(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	err = engine.RenderStatus(rr, http.StatusOK, "pages/missing.html", TemplateData{})
	assert.Error(t, err)
	assert.Empty(t, rr.Body.String())
}

func TestNilEngine(t *testing.T) {
	var engine *Engine
	_, err := engine.Fragment("panels/overview.html", nil)
	assert.Error(t, err)
}
