package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	tunables "github.com/Flagsmith/tunables-go"
	"github.com/Flagsmith/tunables-go/runtimeengine"
)

var builtinBackends = []string{"cpu", "wasm", "webgl", "webgpu"}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tunables",
		Short:         "Inspect platforms and validate tunable runtime flags",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("registry", "", "registry document (JSON or YAML); defaults to the built-in registry")
	root.AddCommand(newPlatformCmd(), newFlagsCmd(), newApplyCmd())
	return root
}

func newPlatformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platform <user-agent>",
		Short: "Classify a user-agent string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ua := args[0]
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "platform: %s\n", tunables.DetectPlatform(ua))
			fmt.Fprintf(out, "ios:      %t\n", tunables.IsIOS(ua))
			fmt.Fprintf(out, "android:  %t\n", tunables.IsAndroid(ua))
			fmt.Fprintf(out, "mobile:   %t\n", tunables.IsMobile(ua))
			return nil
		},
	}
}

func newFlagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "List tunable flags and their legal values",
		Long: `List tunable flags and their legal values.

Examples:
  tunables flags
  tunables flags --backend webgl
  tunables flags --registry ./registry.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, backendFlags, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			names := registry.Flags()
			if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
				names = tunables.TunableFlagsForBackend(registry, backendFlags, backend)
			}
			for _, name := range names {
				values, _ := registry.ValueRange(name)
				printFlag(cmd.OutOrStdout(), name, values)
			}
			return nil
		},
	}
	cmd.Flags().String("backend", "", "only list flags affecting this backend")
	return cmd
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply FLAG=VALUE...",
		Short: "Validate flags and apply them to an in-memory engine",
		Long: `Validate flags and apply them to an in-memory engine with the built-in
backends registered, then print the resulting environment.

Values are decoded as JSON when possible, so WEBGL_PACK=true is a boolean and
WEBGL_VERSION=2 a number.

Examples:
  tunables apply WEBGL_VERSION=2 WEBGL_PACK=false --backend tfjs-webgl
  tunables apply WASM_HAS_SIMD_SUPPORT=true --backend tfjs-wasm`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			flagConfig, err := parseAssignments(args)
			if err != nil {
				return err
			}
			backend, _ := cmd.Flags().GetString("backend")

			engine := runtimeengine.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
			for _, name := range builtinBackends {
				engine.RegisterBackend(name, runtimeengine.NamedBackendFactory(name))
			}
			c := tunables.New(engine, tunables.WithRegistry(registry))
			defer c.Close()
			if err := c.SetBackendAndEnvFlags(context.Background(), flagConfig, backend); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			flags := engine.Env().Flags()
			names := maps.Keys(flags)
			slices.Sort(names)
			for _, name := range names {
				fmt.Fprintf(out, "%s=%v\n", name, flags[name])
			}
			if name := engine.BackendName(); name != "" {
				fmt.Fprintf(out, "backend: %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().String("backend", "tfjs-webgl", "backend identifier, <runtime>-<backend>")
	return cmd
}

func loadRegistry(cmd *cobra.Command) (tunables.Registry, map[string][]string, error) {
	path, _ := cmd.Flags().GetString("registry")
	if path == "" {
		return tunables.DefaultRegistry(), tunables.DefaultBackendFlags(), nil
	}
	doc, err := tunables.ReadRegistryFromFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading registry: %w", err)
	}
	return doc.Flags, doc.BackendFlags, nil
}

// parseAssignments turns FLAG=VALUE arguments into a flag configuration.
func parseAssignments(args []string) (tunables.FlagConfig, error) {
	flagConfig := make(tunables.FlagConfig, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected FLAG=VALUE", arg)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		flagConfig[name] = value
	}
	return flagConfig, nil
}

func printFlag(out io.Writer, name string, values []any) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	fmt.Fprintf(out, "%s [%s]\n", name, strings.Join(parts, ","))
}
