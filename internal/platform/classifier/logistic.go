package classifier

import "math"

type logistic struct {
	weights   []float64
	intercept float64
	positive  int
}

func (l logistic) positiveProba(x []float64) float64 {
	z := l.intercept
	for i, w := range l.weights {
		z += w * x[i]
	}
	p := 1 / (1 + math.Exp(-z))
	if l.positive == 0 {
		return 1 - p
	}
	return p
}

func (l logistic) size() int { return 1 }

func compileLogistic(coef []float64, intercept float64, nFeatures, positive int) (logistic, error) {
	if len(coef) != nFeatures {
		return logistic{}, unavailable("logistic regression has %d coefficients for %d features", len(coef), nFeatures)
	}
	return logistic{weights: append([]float64(nil), coef...), intercept: intercept, positive: positive}, nil
}
