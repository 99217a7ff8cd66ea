package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/lwcp/internal/protocol"
)

type buildOptions struct {
	Op    string
	Objs  []string
	Props []string
}

func newBuildCommand(opts *rootOptions) *cobra.Command {
	b := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build one LWCP message from flags",
		Example: `  lwcpctl build --op call --obj studio#1 --obj line#3 --prop number='"101"' --prop '$ack'
  lwcpctl build --op set --obj mixer --prop gain=-3.5 --prop mode=HYBRID`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := b.message()
			if err != nil {
				return err
			}
			out, err := newPrinter(opts.cfg.Decode.Format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := out.Print(msg); err != nil {
				return err
			}
			return out.Close()
		},
	}
	cmd.Flags().StringVar(&b.Op, "op", "", "operation name")
	cmd.Flags().StringArrayVar(&b.Objs, "obj", nil, "object selector name or name#id, repeatable")
	cmd.Flags().StringArrayVar(&b.Props, "prop", nil, "property name or name=value, repeatable")
	_ = cmd.MarkFlagRequired("op")
	return cmd
}

// message assembles the message through the public builder API. Property
// values use the wire value grammar.
func (b *buildOptions) message() (*protocol.Message, error) {
	msg, err := protocol.NewMessage(b.Op)
	if err != nil {
		return nil, err
	}
	for _, sel := range b.Objs {
		name, id, _ := strings.Cut(sel, "#")
		if err := msg.AddObjectName(name, id); err != nil {
			return nil, err
		}
	}
	for _, prop := range b.Props {
		name, text, hasValue := strings.Cut(prop, "=")
		if !hasValue {
			if err := msg.SetFlag(name); err != nil {
				return nil, err
			}
			continue
		}
		v, rest, err := protocol.ParseValue(text)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		if !v.IsValid() {
			return nil, fmt.Errorf("property %q: %w: %q", name, protocol.ErrUnparseableValue, text)
		}
		if strings.TrimSpace(rest) != "" {
			return nil, fmt.Errorf("property %q: %w: trailing %q", name, protocol.ErrSyntax, rest)
		}
		if err := msg.SetProperty(name, v); err != nil {
			return nil, err
		}
	}
	return msg, nil
}
