package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zostay/go-rawmail/prepare"
)

// prepareFlags are the flags shared by rewrite and compose.
type prepareFlags struct {
	requestPath  string
	metadataPath string
	returnObject bool
}

func (pf *prepareFlags) register(cmd *cobra.Command, requestRequired bool) {
	cmd.Flags().StringVarP(&pf.requestPath, "request", "r", "", "YAML request file")
	cmd.Flags().StringVarP(&pf.metadataPath, "metadata", "m", "", "write the result metadata as YAML to this file")
	cmd.Flags().BoolVar(&pf.returnObject, "object", false, "include the parsed message in the metadata")
	if requestRequired {
		_ = cmd.MarkFlagRequired("request")
	}
}

func (pf *prepareFlags) loadRequest() (*prepare.Request, error) {
	req := &prepare.Request{}
	if pf.requestPath == "" {
		return req, nil
	}

	data, err := os.ReadFile(pf.requestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}

	if err := yaml.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("failed to parse request file: %w", err)
	}
	return req, nil
}

// run prepares the message and writes it to stdout, and the metadata to the
// metadata file when one is named.
func (a *app) run(cmd *cobra.Command, pf *prepareFlags, req *prepare.Request) error {
	opts := a.cfg.Options(a.logger)
	if pf.returnObject {
		opts = append(opts, prepare.WithReturnObject())
	}

	res, err := prepare.GetRawEmail(req, opts...)
	if err != nil {
		return err
	}

	if _, err := cmd.OutOrStdout().Write(res.Raw); err != nil {
		return err
	}

	if pf.metadataPath == "" {
		return nil
	}

	meta, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	return os.WriteFile(pf.metadataPath, meta, 0o644)
}

func (a *app) rewriteCommand() *cobra.Command {
	pf := &prepareFlags{}
	cmd := &cobra.Command{
		Use:   "rewrite [message]",
		Short: "Rewrite the header of a raw message",
		Long: `Reads a raw message from the named file or stdin, applies the request to
its header, strips the private X-Ee-* headers, and writes the result to
stdout. The body is copied as it is.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := pf.loadRequest()
			if err != nil {
				return err
			}

			req.Raw, err = readInput(cmd, args)
			if err != nil {
				return err
			}
			req.RawBase64 = ""

			return a.run(cmd, pf, req)
		},
	}
	pf.register(cmd, false)
	return cmd
}

func (a *app) composeCommand() *cobra.Command {
	pf := &prepareFlags{}
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Build a new message from a request file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := pf.loadRequest()
			if err != nil {
				return err
			}

			req.Raw, req.RawBase64 = nil, ""
			return a.run(cmd, pf, req)
		},
	}
	pf.register(cmd, true)
	return cmd
}

func (a *app) removeBccCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-bcc [message]",
		Short: "Remove the Bcc header from a raw message",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			out, err := prepare.RemoveBcc(raw)
			if err != nil {
				return err
			}

			a.logger.Debug("removed bcc", "in", len(raw), "out", len(out))
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
