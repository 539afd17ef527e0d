package visual

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPage(t *testing.T) {
	spec := testSpec(t)
	spec.Title = `Cases <script>alert(1)</script>`
	spec.Atlas.URL = "/atlas.json"

	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, spec))
	page := buf.String()

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "https://d3js.org/d3.v5.min.js")
	assert.Contains(t, page, "https://unpkg.com/topojson@3")
	assert.Contains(t, page, Directions)
	assert.Contains(t, page, `"/atlas.json"`)
	assert.Contains(t, page, `"translate":{"x":400,"y":350}`)
	assert.Contains(t, page, `#F8DBEF`)

	assert.Contains(t, page, "Cases &lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, page, "<script>alert(1)</script>")
}
