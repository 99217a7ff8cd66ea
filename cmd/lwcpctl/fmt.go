package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danmuck/lwcp/internal/protocol/stream"
)

var errNotCanonical = errors.New("input is not in canonical form")

func newFmtCommand(opts *rootOptions) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Rewrite LWCP messages in canonical form",
		Long: `Parse every message and render it again. Blank lines and messages that
cannot be parsed are left out. With --check nothing is printed and the
command fails if the input differs from its canonical form.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(opts, cmd, args, check)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "fail if input is not canonical")
	return cmd
}

func runFmt(opts *rootOptions, cmd *cobra.Command, args []string, check bool) error {
	src, _, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer src.Close()

	input, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var canonical bytes.Buffer
	r := stream.NewReader(bytes.NewReader(input), opts.cfg.Decode.Stream)
	w := stream.NewWriter(&canonical)
	for {
		msg, err := r.ReadMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := w.WriteMessage(msg); err != nil {
			return err
		}
	}

	if check {
		if !bytes.Equal(input, canonical.Bytes()) {
			return errNotCanonical
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(canonical.Bytes())
	return err
}
