package adrclass

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/unixpickle/weakai/neuralnet"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultHiddenCount = 32
	defaultStepSize    = 0.05
	defaultEpochs      = 20
)

// NeuralNet is a one-hidden-layer sigmoid network trained
// by plain SGD on mean squared error.
type NeuralNet struct {
	trainConfig *neuralNetConfig

	rng     *rand.Rand
	network *neuralnet.Network
}

func NewNeuralNet(inputCount, classCount int, rng *rand.Rand) (*NeuralNet, error) {
	config, err := getNeuralNetConfig()
	if err != nil {
		return nil, err
	}

	network, err := neuralnet.NewNetwork([]neuralnet.LayerPrototype{
		&neuralnet.DenseParams{
			Activation:  neuralnet.Sigmoid{},
			InputCount:  inputCount,
			OutputCount: config.HiddenCount,
		},
		&neuralnet.DenseParams{
			Activation:  neuralnet.Sigmoid{},
			InputCount:  config.HiddenCount,
			OutputCount: classCount,
		},
	})
	if err != nil {
		return nil, err
	}
	network.SetInput(make([]float64, inputCount))
	network.SetDownstreamGradient(make([]float64, len(network.Output())))

	return &NeuralNet{
		trainConfig: config,
		rng:         rng,
		network:     network,
	}, nil
}

func (n *NeuralNet) Train(samples *mat.Dense, classes []int) error {
	rows, cols := samples.Dims()
	if rows != len(classes) {
		return fmt.Errorf("%d samples but %d classes: %w", rows, len(classes), ErrDimensionMismatch)
	}
	if cols != len(n.network.Input()) {
		return fmt.Errorf("%d features but network takes %d: %w", cols,
			len(n.network.Input()), ErrDimensionMismatch)
	}
	for _, c := range classes {
		if c < 0 || c >= len(n.network.Output()) {
			return fmt.Errorf("neural net: invalid class %d", c)
		}
	}

	n.network.Randomize()
	for epoch := 0; epoch < n.trainConfig.Epochs; epoch++ {
		perm := n.rng.Perm(rows)
		for _, x := range perm {
			n.sgdStep(samples.RawRowView(x), classes[x])
		}
		if logrus.IsLevelEnabled(logrus.DebugLevel) {
			logrus.WithField("module", "neuralnet").Debugf("Epoch %d: %s",
				epoch, n.rightCounts(samples, classes))
		}
	}
	return nil
}

func (n *NeuralNet) Classify(vec []float64) int {
	n.setInput(vec)
	n.network.PropagateForward()
	var outputClass int
	var maxOutput float64
	for j, out := range n.network.Output() {
		if out > maxOutput {
			maxOutput = out
			outputClass = j
		}
	}
	return outputClass
}

func (n *NeuralNet) setInput(vec []float64) {
	copy(n.network.Input(), vec)
}

func (n *NeuralNet) sgdStep(vec []float64, class int) {
	downstream := n.network.DownstreamGradient()

	n.setInput(vec)
	n.network.PropagateForward()

	expected := make([]float64, len(downstream))
	expected[class] = 1

	costFunc := neuralnet.MeanSquaredCost{}
	costFunc.Deriv(n.network, expected, downstream)

	n.network.PropagateBackward(false)
	n.network.StepGradient(-n.trainConfig.StepSize)
}

func (n *NeuralNet) rightCounts(samples *mat.Dense, classes []int) string {
	rightMap := make([]int, len(n.network.Output()))
	totalMap := make([]int, len(n.network.Output()))
	var totalRight int
	for i, class := range classes {
		if n.Classify(samples.RawRowView(i)) == class {
			rightMap[class]++
			totalRight++
		}
		totalMap[class]++
	}
	resStrs := make([]string, len(rightMap))
	for i, right := range rightMap {
		resStrs[i] = fmt.Sprintf("%d/%d", right, totalMap[i])
	}
	return fmt.Sprintf("%d/%d (classes: %s)", totalRight, len(classes),
		strings.Join(resStrs, " "))
}

type neuralNetConfig struct {
	HiddenCount int
	StepSize    float64
	Epochs      int
}

func getNeuralNetConfig() (*neuralNetConfig, error) {
	count, err := envInt(NeuralNetHiddenSizeEnvVar, defaultHiddenCount)
	if err != nil {
		return nil, err
	}
	stepSize, err := envFloat(NeuralNetStepSizeEnvVar, defaultStepSize)
	if err != nil {
		return nil, err
	}
	epochs, err := envInt(NeuralNetEpochsEnvVar, defaultEpochs)
	if err != nil {
		return nil, err
	}

	return &neuralNetConfig{
		HiddenCount: count,
		StepSize:    stepSize,
		Epochs:      epochs,
	}, nil
}
