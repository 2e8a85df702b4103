package adrclass

import (
	"fmt"
	"os"
	"strconv"
)

const (
	SVMCostEnvVar    = "SVM_C"
	SVMMaxIterEnvVar = "SVM_MAX_ITER"

	NeuralNetStepSizeEnvVar   = "NEURALNET_STEP_SIZE"
	NeuralNetHiddenSizeEnvVar = "NEURALNET_HIDDEN_COUNT"
	NeuralNetEpochsEnvVar     = "NEURALNET_EPOCHS"
)

func envInt(envVar string, defaultVal int) (int, error) {
	param := os.Getenv(envVar)
	if param == "" {
		return defaultVal, nil
	}
	res, err := strconv.Atoi(param)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %s", envVar, param)
	}
	return res, nil
}

func envFloat(envVar string, defaultVal float64) (float64, error) {
	param := os.Getenv(envVar)
	if param == "" {
		return defaultVal, nil
	}
	res, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %s", envVar, param)
	}
	return res, nil
}
