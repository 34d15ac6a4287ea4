// Package main provides the editor CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"scene-editor/internal/app"
	"scene-editor/internal/config"
	"scene-editor/internal/net/proto"
	"scene-editor/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:           "editor",
	Short:         "Scene editor host",
	Long:          `Runs the scene editor: an undoable property-editing engine served to remote inspectors over websocket.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the editor over HTTP and websocket",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Write the JSON schema of inspector client messages",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

var (
	configPath string
	outPath    string
)

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML settings file")
	schemaCmd.Flags().StringVar(&outPath, "out", "", "Path to write the JSON schema")
	schemaCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(schemaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx, app.Config{
		Logger:   telemetry.WrapLogger(log.Default()),
		Settings: settings,
	})
}

func runSchema(cmd *cobra.Command, args []string) error {
	if err := writeSchema(outPath, buildSchema()); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(proto.ClientMessage))
	schema.Title = "Scene Editor Client Message"
	schema.Description = fmt.Sprintf("Requests an inspector sends over /ws, protocol version %d", proto.Version)
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
