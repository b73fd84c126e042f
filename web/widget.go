// Package web holds embedded browser assets served by the API.
package web

import _ "embed"

//go:embed widget.js
var WidgetJS []byte
