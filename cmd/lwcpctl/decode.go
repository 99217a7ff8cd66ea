package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danmuck/lwcp/internal/logging"
	"github.com/danmuck/lwcp/internal/protocol/stream"
)

var errStrict = errors.New("strict mode: input had dropped, damaged or rejected messages")

func newDecodeCommand(opts *rootOptions) *cobra.Command {
	var validate bool
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a stream of LWCP messages",
		Long: `Decode newline-framed LWCP messages from a file or stdin and print each
one as wire text, JSON lines or YAML documents. With --validate every
message is checked against the [[schema]] rules of the config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(opts, cmd, args, validate)
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "check messages against schema rules")
	return cmd
}

func runDecode(opts *rootOptions, cmd *cobra.Command, args []string, validate bool) error {
	log := logging.For("lwcpctl")

	src, name, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer src.Close()

	reg, err := opts.cfg.Registry()
	if err != nil {
		return err
	}
	out, err := newPrinter(opts.cfg.Decode.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	r := stream.NewReader(src, opts.cfg.Decode.Stream)
	rejected := 0
	truncated := false
	for {
		msg, err := r.ReadMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			log.Warn().Err(err).Str("input", name).Msg("input truncated")
			truncated = true
			break
		}
		if err != nil {
			return err
		}
		if validate {
			if verr := reg.Validate(msg); verr != nil {
				rejected++
				log.Warn().Err(verr).Str("message", msg.String()).Msg("message rejected")
				continue
			}
		}
		if err := out.Print(msg); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	stats := r.Stats()
	log.Info().
		Str("input", name).
		Str("stream", r.ID()).
		Int("bytes", stats.Bytes).
		Int("messages", stats.Messages).
		Int("dropped", stats.Dropped).
		Int("damaged", stats.Damaged).
		Int("rejected", rejected).
		Msg("decode finished")

	if opts.cfg.Decode.Strict && (stats.Dropped > 0 || stats.Damaged > 0 || rejected > 0 || truncated) {
		return errStrict
	}
	return nil
}
