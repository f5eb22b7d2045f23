package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/go-rawmail/message"
)

// ErrRoundTrip is returned by roundtrip when a message does not survive.
var ErrRoundTrip = fmt.Errorf("message changed in round trip")

func (a *app) roundtripCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip message...",
		Short: "Shows the diff of splitting and rejoining each message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				ok, err := a.roundtripOne(cmd, path)
				if err != nil {
					return err
				}
				if !ok {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", ErrRoundTrip, failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) roundtripOne(cmd *cobra.Command, path string) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	m, err := message.Split(bytes.NewReader(src))
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	if bytes.Equal(src, buf.Bytes()) {
		a.logger.Debug("round trip ok", "path", path, "size", len(src))
		fmt.Fprintf(out, "ok   %s\n", path)
		return true, nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(src), buf.String(), false)
	patches := dmp.PatchMake(string(src), diffs)

	fmt.Fprintf(out, "FAIL %s\n%s", path, dmp.PatchToText(patches))
	return false, nil
}
