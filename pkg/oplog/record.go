package oplog

import (
	"time"

	"github.com/hart-dev/hart/pkg/telemetry"
)

// Record describes one render pass.
type Record struct {
	Seq      uint64        `msgpack:"seq" json:"seq"`
	At       time.Time     `msgpack:"at" json:"at"`
	Duration time.Duration `msgpack:"dur" json:"duration"`
	Result   string        `msgpack:"result" json:"result"`
	Error    string        `msgpack:"error,omitempty" json:"error,omitempty"`

	Ops []OpRecord `msgpack:"ops" json:"ops"`

	Renders int `msgpack:"renders" json:"renders"`
	Reused  int `msgpack:"reused" json:"reused"`
	Nodes   int `msgpack:"nodes" json:"nodes"`
	Entries int `msgpack:"entries" json:"entries"`
}

// OpRecord describes one change operation.
type OpRecord struct {
	Type   string   `msgpack:"t" json:"type"`
	Target uint32   `msgpack:"n" json:"target"`
	Kind   string   `msgpack:"k,omitempty" json:"kind,omitempty"`
	Tag    string   `msgpack:"tag,omitempty" json:"tag,omitempty"`
	Added  int      `msgpack:"add,omitempty" json:"added,omitempty"`
	Keys   []string `msgpack:"keys,omitempty" json:"keys,omitempty"`
	Attrs  []string `msgpack:"attrs,omitempty" json:"attrs,omitempty"`
}

// FromPass converts a pass into a Record. The result shares nothing
// with p.
func FromPass(p *telemetry.Pass) Record {
	r := Record{
		Seq:      p.Seq,
		At:       p.Start.UTC(),
		Duration: p.Duration(),
		Result:   p.Result(),
		Renders:  p.Renders,
		Reused:   p.Reused,
		Nodes:    p.Nodes,
		Entries:  p.Entries,
	}
	if p.Err != nil {
		r.Error = p.Err.Error()
	}
	if len(p.Ops) > 0 {
		r.Ops = make([]OpRecord, len(p.Ops))
		for i, op := range p.Ops {
			r.Ops[i] = OpRecord{
				Type:   op.Type,
				Target: op.Target,
				Kind:   op.Kind,
				Tag:    op.Tag,
				Added:  op.Nodes,
				Keys:   append([]string(nil), op.Keys...),
				Attrs:  append([]string(nil), op.Attrs...),
			}
		}
	}
	return r
}

// Counts tallies the record's operations by type.
func (r Record) Counts() map[string]int {
	out := make(map[string]int, len(r.Ops))
	for _, op := range r.Ops {
		out[op.Type]++
	}
	return out
}
