package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	tunables "github.com/Flagsmith/tunables-go"
	"github.com/Flagsmith/tunables-go/runtimeengine"
)

type PlatformResponse struct {
	Platform string         `json:"platform"`
	Mobile   bool           `json:"mobile"`
	Backend  string         `json:"backend"`
	Flags    map[string]any `json:"flags"`
	Tunable  []string       `json:"tunable"`
}

var (
	engine       = runtimeengine.New(slog.Default())
	configurator *tunables.Configurator
)

func main() {
	for _, name := range []string{"cpu", "wasm", "webgl"} {
		engine.RegisterBackend(name, runtimeengine.NamedBackendFactory(name))
	}

	var options []tunables.Option
	if path := os.Getenv("TUNABLES_REGISTRY_FILE"); path != "" {
		doc, err := tunables.ReadRegistryFromFile(path)
		if err != nil {
			log.Fatal(err)
		}
		options = append(options, tunables.WithRegistryDocument(doc))
	}
	configurator = tunables.New(engine, options...)

	http.HandleFunc("/", RootHandler)
	http.HandleFunc("/flags", FlagsHandler)

	fmt.Printf("Starting server at port 5000\n")
	if err := http.ListenAndServe(":5000", nil); err != nil {
		log.Fatal(err)
	}
}

// RootHandler reports the caller's platform and the engine state.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	platform := tunables.DetectPlatform(r.UserAgent())
	backend := engine.BackendName()
	if backend == "" {
		backend = "webgl"
		if platform.IsMobile() {
			backend = "cpu"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(PlatformResponse{
		Platform: platform.String(),
		Mobile:   platform.IsMobile(),
		Backend:  backend,
		Flags:    engine.Env().Flags(),
		Tunable:  configurator.TunableFlags(backend),
	})
}

// FlagsHandler applies the posted flag configuration and resets the backend
// given by the "backend" query parameter, e.g. ?backend=tfjs-webgl.
func FlagsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var flagConfig map[string]any
	if err := json.NewDecoder(r.Body).Decode(&flagConfig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := configurator.SetBackendAndEnvFlags(r.Context(), flagConfig, r.URL.Query().Get("backend")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
