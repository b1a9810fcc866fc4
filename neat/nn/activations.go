package nn

import (
	"fmt"
	"math"
)

// Activation selects the nonlinearity applied to a layer's weighted sums.
type Activation int

const (
	ActivationSigmoid Activation = iota
	ActivationFastSigmoid
	ActivationReLU
)

// activationNames maps config strings to activation kinds, mirroring the
// name-based selection used for INI configuration.
var activationNames = map[string]Activation{
	"sigmoid":      ActivationSigmoid,
	"fast_sigmoid": ActivationFastSigmoid,
	"relu":         ActivationReLU,
}

// ParseActivation resolves an activation kind by its configuration name.
func ParseActivation(name string) (Activation, error) {
	if a, ok := activationNames[name]; ok {
		return a, nil
	}
	return 0, fmt.Errorf("unknown activation function: %s", name)
}

// String returns the configuration name of the activation kind.
func (a Activation) String() string {
	switch a {
	case ActivationSigmoid:
		return "sigmoid"
	case ActivationFastSigmoid:
		return "fast_sigmoid"
	case ActivationReLU:
		return "relu"
	}
	return fmt.Sprintf("activation(%d)", int(a))
}

// Sigmoid is the logistic sigmoid, clamped so large magnitudes cannot
// overflow the exponential: inputs below -45 return 0, above 45 return 1.
func Sigmoid(x float64) float64 {
	if x < -45.0 {
		return 0.0
	}
	if x > 45.0 {
		return 1.0
	}
	return 1.0 / (1.0 + math.Exp(-x))
}

// FastSigmoid is the rational approximation x/(1+|x|).
func FastSigmoid(x float64) float64 {
	return x / (1.0 + math.Abs(x))
}

// ReLU is the rectified linear unit max(0, x).
func ReLU(x float64) float64 {
	if x < 0 {
		return 0.0
	}
	return x
}

// activate applies the selected nonlinearity. An unrecognized kind is a
// fatal configuration error, not a recoverable condition.
func activate(a Activation, x float64) float64 {
	switch a {
	case ActivationSigmoid:
		return Sigmoid(x)
	case ActivationFastSigmoid:
		return FastSigmoid(x)
	case ActivationReLU:
		return ReLU(x)
	default:
		panic(fmt.Sprintf("nn: activation function %d not found", int(a)))
	}
}
