package net

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/wm-noble/net/apf"
)

// Node record type tags.
const (
	tagNode   byte = 0
	tagInput  byte = 1
	tagNeuron byte = 2
)

// binWriter threads a sticky error through consecutive big-endian writes.
type binWriter struct {
	w   io.Writer
	err error
	buf [8]byte
}

func (bw *binWriter) write(b []byte) {
	if bw.err == nil {
		_, bw.err = bw.w.Write(b)
	}
}

func (bw *binWriter) u8(v byte) {
	bw.buf[0] = v
	bw.write(bw.buf[:1])
}

func (bw *binWriter) u64(v uint64) {
	binary.BigEndian.PutUint64(bw.buf[:], v)
	bw.write(bw.buf[:8])
}

func (bw *binWriter) f64(v float64) {
	bw.u64(math.Float64bits(v))
}

func (bw *binWriter) name(s string) {
	var b [apf.NameLen]byte
	copy(b[:], s)
	bw.write(b[:])
}

// Encode writes the Network in its binary form: a big-endian 8-byte node
// count followed by one record per member, in membership order. Each record
// holds a 1-byte type tag (0 Node, 1 Input, 2 Neuron), the 3-byte
// activation name (zero bytes when the node has a custom or no activation),
// and both potential slots. Input records append the loop flag; Neuron
// records append the bias and the weighted parent list, parents identified
// by membership index. A parent that is not a member is written with index
// equal to the node count.
//
// Input data sequences are runtime state, not parameters, and are not
// written. Output designation is not part of the format either; callers of
// Decode re-apply SetOutputs.
func (net *Network) Encode(w io.Writer) error {
	bw := &binWriter{w: w}
	bw.u64(uint64(len(net.nodes)))

	for _, member := range net.nodes {
		switch n := member.(type) {
		case *Input:
			bw.u8(tagInput)
			bw.name(n.persistName())
			bw.f64(n.pot[0])
			bw.f64(n.pot[1])
			if n.loop {
				bw.u8(1)
			} else {
				bw.u8(0)
			}
		case *Neuron:
			bw.u8(tagNeuron)
			bw.name(n.persistName())
			bw.f64(n.pot[0])
			bw.f64(n.pot[1])
			bw.f64(n.bias)
			bw.u64(uint64(len(n.parents)))
			for i := range n.parents {
				bw.u64(uint64(net.nodeIndex(n.parents[i].node)))
				bw.f64(n.parents[i].weight)
			}
		case *Node:
			bw.u8(tagNode)
			bw.name(n.persistName())
			bw.f64(n.pot[0])
			bw.f64(n.pot[1])
		default:
			return errors.Errorf("can't encode network, node %v has unknown type", member)
		}
	}

	return errors.Wrap(bw.err, "encoding network failed")
}

// binReader mirrors binWriter for reads.
type binReader struct {
	r   io.Reader
	err error
	buf [8]byte
}

func (br *binReader) read(b []byte) {
	if br.err == nil {
		_, br.err = io.ReadFull(br.r, b)
	}
}

func (br *binReader) u8() byte {
	br.read(br.buf[:1])
	return br.buf[0]
}

func (br *binReader) u64() uint64 {
	br.read(br.buf[:8])
	return binary.BigEndian.Uint64(br.buf[:8])
}

func (br *binReader) f64() float64 {
	return math.Float64frombits(br.u64())
}

func (br *binReader) name() string {
	var b [apf.NameLen]byte
	br.read(b[:])
	if b[0] == 0 {
		return ""
	}

	return string(b[:])
}

// Decode reads a Network previously written by Encode. Parent indices must
// address a decoded node: an out-of-range index, including the encoder's
// non-member marker, is an error rather than a silently dropped edge. The
// returned Network has no outputs set.
func Decode(r io.Reader) (*Network, error) {
	br := &binReader{r: r}

	count := br.u64()
	if br.err != nil {
		return nil, errors.Wrap(br.err, "can't decode network, failed to read node count")
	}

	type parentRec struct {
		index  uint64
		weight float64
	}

	nodes := make([]Noder, 0, count)
	parents := make(map[int][]parentRec)

	for id := uint64(0); id < count; id++ {
		tag := br.u8()
		name := br.name()

		var member Noder
		var base *Node

		switch tag {
		case tagNode:
			n := NewNode()
			member, base = n, n
		case tagInput:
			in := NewInput(nil, false)
			member, base = in, &in.Node
		case tagNeuron:
			nr := NewNeuron()
			member, base = nr, &nr.Node
		default:
			if br.err == nil {
				return nil, errors.Errorf("can't decode network, node %d has unknown type tag %d", id, tag)
			}
		}

		if br.err != nil {
			return nil, errors.Wrapf(br.err, "can't decode network, record %d is truncated or unreadable", id)
		}

		base.pot[0] = br.f64()
		base.pot[1] = br.f64()

		switch n := member.(type) {
		case *Input:
			n.loop = br.u8() == 1
		case *Neuron:
			n.bias = br.f64()
			numParents := br.u64()
			if br.err != nil {
				break
			}

			recs := make([]parentRec, numParents)
			for i := range recs {
				recs[i] = parentRec{br.u64(), br.f64()}
			}
			parents[int(id)] = recs
		}

		if br.err != nil {
			return nil, errors.Wrapf(br.err, "can't decode network, record %d is truncated or unreadable", id)
		}

		if name != "" {
			if err := base.SetActivation(name); err != nil {
				return nil, errors.Wrapf(err, "can't decode network, node %d", id)
			}
		}

		nodes = append(nodes, member)
	}

	// Wiring waits until every node exists: a record may reference parents
	// with higher indices.
	for id, recs := range parents {
		nr := nodes[id].(*Neuron)
		for _, rec := range recs {
			if rec.index >= count {
				return nil, errors.Errorf("can't decode network, node %d references parent %d of %d", id, rec.index, count)
			}

			nr.parents = append(nr.parents, edge{nodes[rec.index], rec.weight})
		}
	}

	return New(nodes...), nil
}

// Save writes the Network to the file at path, creating or truncating it.
func (net *Network) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "can't save network, couldn't create %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := net.Encode(w); err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "can't save network, flushing %s failed", path)
	}

	return nil
}

// Load reads a Network from a file previously written by Save.
func Load(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't load network, couldn't open %s", path)
	}
	defer f.Close()

	return Decode(bufio.NewReader(f))
}
