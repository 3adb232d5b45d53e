package fixtures

import (
	"io"
	"net/http"
)

const BaseURL = "http://localhost:8000/api/v1/"
const EnvironmentAPIKey = "test_key"
const RegistryPath = "/api/v1/tunable-flags/"
const AnalyticsPath = "/api/v1/analytics/tunable-flags/"

const RegistryJson = `
{
	"version": "1.2.0",
	"updated_at": "2024-12-06T10:21:54.079725Z",
	"flags": {
		"WEBGL_VERSION": [1, 2],
		"WEBGL_PACK": [true, false],
		"WEBGL_FLUSH_THRESHOLD": [-1, 0, 0.5, 1],
		"WASM_HAS_SIMD_SUPPORT": [true, false]
	},
	"backends": {
		"general": [],
		"webgl": ["WEBGL_VERSION", "WEBGL_PACK", "WEBGL_FLUSH_THRESHOLD"],
		"wasm": ["WASM_HAS_SIMD_SUPPORT"]
	}
}
`

const RegistryV2Json = `
{
	"version": "2.0.0",
	"flags": {
		"WEBGL_VERSION": [1, 2]
	}
}
`

func RegistryDocumentHandler(rw http.ResponseWriter, req *http.Request) {
	if req.URL.Path != RegistryPath {
		panic("Wrong path")
	}
	if req.Header.Get("X-Environment-Key") != EnvironmentAPIKey {
		panic("Wrong API key")
	}

	rw.Header().Set("Content-Type", "application/json")

	rw.WriteHeader(http.StatusOK)
	_, err := io.WriteString(rw, RegistryJson)
	if err != nil {
		panic(err)
	}
}
