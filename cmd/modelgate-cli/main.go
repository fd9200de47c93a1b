// Command modelgate-cli is a small operator client for a running
// modelgated server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/modelgate/modelgate/internal/version"
)

func main() {
	var serverURL string

	root := &cobra.Command{
		Use:           "modelgate-cli",
		Short:         "Client for the modelgate dispatch server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the modelgated server")

	var target string
	send := &cobra.Command{
		Use:   "send [prompt]",
		Short: "Dispatch a prompt and print the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendPrompt(cmd.OutOrStdout(), serverURL, target, args[0])
		},
	}
	send.Flags().StringVar(&target, "target", "bedrock", "target model: bedrock or azure")
	root.AddCommand(send)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func sendPrompt(out io.Writer, serverURL, target, prompt string) error {
	body, err := json.Marshal(map[string]string{
		"prompt":       prompt,
		"target_model": target,
	})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Post(serverURL+"/v1/invoke", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload struct {
		Model string `json:"model"`
		Reply string `json:"reply"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, payload.Error)
	}
	fmt.Fprintf(out, "[%s] %s\n", payload.Model, payload.Reply)
	return nil
}
