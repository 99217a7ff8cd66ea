package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/danmuck/lwcp/internal/config"
	"github.com/danmuck/lwcp/internal/protocol"
	"github.com/danmuck/lwcp/internal/protocol/stream"
)

type messageView struct {
	Op               string         `json:"op" yaml:"op"`
	Objects          []objectView   `json:"objects,omitempty" yaml:"objects,omitempty"`
	Properties       []propertyView `json:"properties,omitempty" yaml:"properties,omitempty"`
	SystemProperties []propertyView `json:"system_properties,omitempty" yaml:"system_properties,omitempty"`
	Wire             string         `json:"wire" yaml:"wire"`
}

type objectView struct {
	Name string `json:"name" yaml:"name"`
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
}

type propertyView struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
}

func viewOf(msg *protocol.Message) messageView {
	view := messageView{Op: msg.Op(), Wire: msg.String()}
	for _, o := range msg.Objects() {
		view.Objects = append(view.Objects, objectView{Name: o.Name(), ID: o.ID()})
	}
	view.Properties = propertyViews(msg.Properties())
	view.SystemProperties = propertyViews(msg.SystemProperties())
	return view
}

func propertyViews(props []protocol.Property) []propertyView {
	if len(props) == 0 {
		return nil
	}
	out := make([]propertyView, len(props))
	for i, p := range props {
		out[i] = propertyView{Name: p.Name, Type: p.Value.Type().String(), Value: p.Value.Native()}
	}
	return out
}

// printer emits decoded messages in one output format.
type printer interface {
	Print(msg *protocol.Message) error
	Close() error
}

func newPrinter(format string, w io.Writer) (printer, error) {
	switch format {
	case config.FormatText:
		return wirePrinter{w: stream.NewWriter(w)}, nil
	case config.FormatJSON:
		return jsonPrinter{enc: json.NewEncoder(w)}, nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return yamlPrinter{enc: enc}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

type wirePrinter struct{ w *stream.Writer }

func (p wirePrinter) Print(msg *protocol.Message) error { return p.w.WriteMessage(msg) }
func (p wirePrinter) Close() error                      { return nil }

type jsonPrinter struct{ enc *json.Encoder }

func (p jsonPrinter) Print(msg *protocol.Message) error { return p.enc.Encode(viewOf(msg)) }
func (p jsonPrinter) Close() error                      { return nil }

type yamlPrinter struct{ enc *yaml.Encoder }

func (p yamlPrinter) Print(msg *protocol.Message) error { return p.enc.Encode(viewOf(msg)) }
func (p yamlPrinter) Close() error                      { return p.enc.Close() }
