// Package nn implements a fixed-topology feed-forward network backed by a
// single contiguous buffer. The weight array and the neuron scratch array
// live back to back in one allocation so inference walks memory linearly;
// segment offsets are always recomputed from the stored counts, never
// carried over from another instance.
package nn

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand"
)

// DefaultBias is the constant input multiplied against each neuron's
// dedicated bias weight.
const DefaultBias = -1.0

// FFNet is a feed-forward network with a uniform hidden width repeated
// across all hidden layers. The topology is fixed at creation.
//
// The data slice holds the weight array followed by the neuron/output
// scratch array. Run reuses the scratch segment on every call, so a network
// must not be shared between concurrent callers.
type FFNet struct {
	NumInputs       int
	NumHiddens      int
	NumOutputs      int
	NumHiddenLayers int

	NumWeights int
	NumNeurons int

	HiddenActivation Activation
	OutputActivation Activation
	Bias             float64

	data    []float64
	weights []float64 // data[:NumWeights]
	neurons []float64 // data[NumWeights:]
}

// setOffsets re-derives the weight and neuron segment views from the counts.
// Must be called after any duplication of the buffer; the segment headers of
// the source are not valid for the copy.
func (n *FFNet) setOffsets() {
	n.weights = n.data[:n.NumWeights]
	n.neurons = n.data[n.NumWeights : n.NumWeights+n.NumNeurons]
}

// WeightCount returns the closed-form number of weights for a topology:
// (inputs+1) weights per first-layer hidden neuron, (hiddens+1) per neuron of
// every further hidden layer, and (hiddens+1) per output neuron, or
// (inputs+1) per output when there are no hidden layers. The +1 is each
// neuron's bias weight.
func WeightCount(inputs, hiddens, outputs, hiddenLayers int) int {
	hiddenWeights := 0
	if hiddenLayers > 0 {
		inputWeights := (inputs + 1) * hiddens
		internalWeights := (hiddenLayers - 1) * (hiddens + 1) * hiddens
		hiddenWeights = inputWeights + internalWeights
	}

	outputWeights := inputs + 1
	if hiddenLayers > 0 {
		outputWeights = hiddens + 1
	}
	outputWeights *= outputs

	return hiddenWeights + outputWeights
}

// NeuronCount returns the number of neuron slots for a topology, counting
// the input slots that the scratch array reserves for layer zero.
func NeuronCount(inputs, hiddens, outputs, hiddenLayers int) int {
	return inputs + hiddens*hiddenLayers + outputs
}

// NewFFNet creates a zero-weighted network. inputs and outputs must be
// positive, and hiddens and hiddenLayers must be both zero or both positive;
// violating the topology contract panics.
func NewFFNet(inputs, hiddens, outputs, hiddenLayers int) *FFNet {
	if inputs <= 0 {
		panic(fmt.Sprintf("nn: input count must be positive, got %d", inputs))
	}
	if outputs <= 0 {
		panic(fmt.Sprintf("nn: output count must be positive, got %d", outputs))
	}
	if (hiddens > 0) != (hiddenLayers > 0) {
		panic(fmt.Sprintf("nn: hidden count (%d) and hidden layer count (%d) must be zero or positive together",
			hiddens, hiddenLayers))
	}

	nweights := WeightCount(inputs, hiddens, outputs, hiddenLayers)
	nneurons := NeuronCount(inputs, hiddens, outputs, hiddenLayers)

	n := &FFNet{
		NumInputs:       inputs,
		NumHiddens:      hiddens,
		NumOutputs:      outputs,
		NumHiddenLayers: hiddenLayers,

		NumWeights: nweights,
		NumNeurons: nneurons,

		HiddenActivation: ActivationSigmoid,
		OutputActivation: ActivationSigmoid,
		Bias:             DefaultBias,

		data: make([]float64, nweights+nneurons),
	}
	n.setOffsets()

	return n
}

// Copy duplicates the network, buffer included, and re-derives the segment
// offsets for the new allocation.
func (n *FFNet) Copy() *FFNet {
	dup := *n
	dup.data = make([]float64, len(n.data))
	copy(dup.data, n.data)
	dup.setOffsets()
	return &dup
}

// Randomize fills every weight with a uniform value in [-0.5, 0.5).
func (n *FFNet) Randomize(rng *rand.Rand) {
	for i := range n.weights {
		n.weights[i] = rng.Float64() - 0.5
	}
}

// SetActivations selects the hidden-layer and output-layer nonlinearities
// independently. The kinds are not validated here; an unsupported kind is
// reported when the network runs.
func (n *FFNet) SetActivations(hidden, output Activation) {
	n.HiddenActivation = hidden
	n.OutputActivation = output
}

// SetBias sets the constant bias input. The default is -1.0.
func (n *FFNet) SetBias(bias float64) {
	n.Bias = bias
}

// Weights exposes the weight segment of the buffer. The slice aliases the
// network's storage.
func (n *FFNet) Weights() []float64 {
	return n.weights
}

// Run propagates inputs through the network and returns the output segment
// of the internal scratch buffer. The returned slice is reused by the next
// Run on this network; callers must copy it if they need to retain values.
func (n *FFNet) Run(inputs []float64) []float64 {
	if len(inputs) != n.NumInputs {
		panic(fmt.Sprintf("nn: got %d inputs, network takes %d", len(inputs), n.NumInputs))
	}

	// The inputs are copied into the front of the neuron buffer so layer
	// zero needs no special casing below.
	copy(n.neurons[:n.NumInputs], inputs)

	wi := 0 // cursor into the weight array
	in := 0 // start of the previous layer in the neuron buffer
	out := n.NumInputs

	for layer := 0; layer < n.NumHiddenLayers; layer++ {
		width := n.NumHiddens
		if layer == 0 {
			width = n.NumInputs
		}

		for j := 0; j < n.NumHiddens; j++ {
			sum := n.weights[wi] * n.Bias
			wi++
			for k := 0; k < width; k++ {
				sum += n.weights[wi] * n.neurons[in+k]
				wi++
			}
			n.neurons[out] = activate(n.HiddenActivation, sum)
			out++
		}

		in += width
	}

	ret := out

	width := n.NumHiddens
	if n.NumHiddenLayers == 0 {
		width = n.NumInputs
	}

	for i := 0; i < n.NumOutputs; i++ {
		sum := n.weights[wi] * n.Bias
		wi++
		for j := 0; j < width; j++ {
			sum += n.weights[wi] * n.neurons[in+j]
			wi++
		}
		n.neurons[out] = activate(n.OutputActivation, sum)
		out++
	}

	if wi != n.NumWeights {
		panic(fmt.Sprintf("nn: run consumed %d weights, expected %d", wi, n.NumWeights))
	}
	if out != n.NumNeurons {
		panic(fmt.Sprintf("nn: run produced %d neuron values, expected %d", out, n.NumNeurons))
	}

	return n.neurons[ret : ret+n.NumOutputs]
}

// ffnetWire is the gob representation of a network. Segment offsets are
// deliberately absent; they are re-derived on decode.
type ffnetWire struct {
	NumInputs        int
	NumHiddens       int
	NumOutputs       int
	NumHiddenLayers  int
	HiddenActivation Activation
	OutputActivation Activation
	Bias             float64
	Data             []float64
}

// GobEncode implements gob.GobEncoder.
func (n *FFNet) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(ffnetWire{
		NumInputs:        n.NumInputs,
		NumHiddens:       n.NumHiddens,
		NumOutputs:       n.NumOutputs,
		NumHiddenLayers:  n.NumHiddenLayers,
		HiddenActivation: n.HiddenActivation,
		OutputActivation: n.OutputActivation,
		Bias:             n.Bias,
		Data:             n.data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode network: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder, recomputing counts and offsets from
// the decoded topology.
func (n *FFNet) GobDecode(b []byte) error {
	var w ffnetWire
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&w); err != nil {
		return fmt.Errorf("failed to decode network: %w", err)
	}

	nweights := WeightCount(w.NumInputs, w.NumHiddens, w.NumOutputs, w.NumHiddenLayers)
	nneurons := NeuronCount(w.NumInputs, w.NumHiddens, w.NumOutputs, w.NumHiddenLayers)
	if len(w.Data) != nweights+nneurons {
		return fmt.Errorf("network buffer length %d does not match topology (want %d)",
			len(w.Data), nweights+nneurons)
	}

	n.NumInputs = w.NumInputs
	n.NumHiddens = w.NumHiddens
	n.NumOutputs = w.NumOutputs
	n.NumHiddenLayers = w.NumHiddenLayers
	n.NumWeights = nweights
	n.NumNeurons = nneurons
	n.HiddenActivation = w.HiddenActivation
	n.OutputActivation = w.OutputActivation
	n.Bias = w.Bias
	n.data = w.Data
	n.setOffsets()

	return nil
}
